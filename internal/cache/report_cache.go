package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/lucroml/backend-go/internal/config"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	summaryKeyPrefix = "report:summary"
	scanBatchSize    = 100
	defaultReportTTL = time.Minute
	dateKeyFormat    = "2006-01-02"
)

// ReportCache holds computed dashboard summaries for their TTL. Any write to
// products, sales, campaigns or settings invalidates everything.
type ReportCache interface {
	GetSummary(ctx context.Context, period domain.Period) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, period domain.Period, summary *domain.DashboardSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache builds a Redis-backed cache, or a no-op one when caching is
// disabled in config.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewNoopReportCache returns a cache that never hits.
func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetSummary(ctx context.Context, period domain.Period) (*domain.DashboardSummary, bool, error) {
	key := buildSummaryKey(period)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode report summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisReportCache) SetSummary(ctx context.Context, period domain.Period, summary *domain.DashboardSummary) error {
	key := buildSummaryKey(period)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode report summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, summaryKeyPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

func (n *noopReportCache) GetSummary(ctx context.Context, period domain.Period) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetSummary(ctx context.Context, period domain.Period, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func buildSummaryKey(period domain.Period) string {
	return fmt.Sprintf("%s:%s:%s",
		summaryKeyPrefix,
		period.From.Format(dateKeyFormat),
		period.To.Format(dateKeyFormat))
}
