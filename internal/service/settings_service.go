package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// DefaultSettings is what a fresh install runs with until the seller saves
// their own configuration. The fee percentages match the marketplace's
// current standard/premium commissions.
func DefaultSettings() *domain.Settings {
	return &domain.Settings{
		ID:                   1,
		StoreName:            "Minha Loja",
		CompanyType:          "MEI",
		DefaultTaxRate:       6,
		DefaultListingType:   domain.ListingPremium,
		DefaultPackagingCost: 2,
		MinMarginTarget:      15,
		MonthlyRevenueGoal:   10000,
		Fees: domain.FeeRates{
			Standard:             12,
			Premium:              16,
			FixedPerSale:         0,
			FulfillmentSurcharge: 6,
		},
		ShippingEstimate: domain.ShippingEstimate{
			Mode: domain.ShippingByWeight,
			WeightBands: []domain.WeightBand{
				{MinKg: 0, MaxKg: 0.5, Cost: 39.90},
				{MinKg: 0.5, MaxKg: 1, Cost: 42.90},
				{MinKg: 1, MaxKg: 2, Cost: 44.90},
				{MinKg: 2, MaxKg: 5, Cost: 49.90},
				{MinKg: 5, MaxKg: 9, Cost: 58.90},
			},
		},
	}
}

type SettingsService struct {
	repo  repository.SettingsRepository
	cache cache.ReportCache
}

func NewSettingsService(repo repository.SettingsRepository, cacheImpl cache.ReportCache) *SettingsService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &SettingsService{repo: repo, cache: cacheImpl}
}

// Get returns the stored configuration, or the defaults when nothing has been
// saved yet.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Save persists the configuration. Fee or shipping changes shift every
// computed margin, so cached report summaries are dropped.
func (s *SettingsService) Save(ctx context.Context, settings *domain.Settings) error {
	if settings.DefaultListingType != domain.ListingStandard && settings.DefaultListingType != domain.ListingPremium {
		return fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, settings.DefaultListingType)
	}
	// Settings payloads from the UI never carry OAuth tokens; keep whatever is
	// stored so saving preferences does not disconnect the account.
	if settings.MLCredentials.AccessToken == "" {
		if current, err := s.repo.Get(ctx); err == nil {
			settings.MLCredentials = current.MLCredentials
		}
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// SaveCredentials updates only the marketplace OAuth state, keeping the rest
// of the configuration untouched.
func (s *SettingsService) SaveCredentials(ctx context.Context, creds domain.MLCredentials) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.MLCredentials = creds
	return s.repo.Save(ctx, settings)
}

func (s *SettingsService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("settings: report cache invalidation failed")
	}
}
