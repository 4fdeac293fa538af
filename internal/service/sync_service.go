package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/config"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/mercadolivre"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrNotConnected is returned when a sync is requested before the marketplace
// account has been linked.
var ErrNotConnected = errors.New("mercado livre account is not connected")

// MarketClient is the slice of the marketplace API the sync needs. Satisfied
// by *mercadolivre.Client; faked in tests.
type MarketClient interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (mercadolivre.Credentials, error)
	Me(ctx context.Context) (*mercadolivre.User, error)
	SellerItems(ctx context.Context) ([]mercadolivre.Item, error)
	Orders(ctx context.Context, from, to time.Time) ([]mercadolivre.Order, error)
	ShipmentCost(ctx context.Context, shipmentID int64) (float64, error)
}

// ClientFactory builds a MarketClient for stored credentials.
type ClientFactory func(creds mercadolivre.Credentials, onRefresh func(mercadolivre.Credentials)) MarketClient

// ImportResult counts what a sync run did.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SyncStatus is the connection state shown on the settings page.
type SyncStatus struct {
	Configured bool  `json:"configured"`
	Connected  bool  `json:"connected"`
	UserID     int64 `json:"user_id,omitempty"`
}

type SyncService struct {
	cfg       config.MercadoLivreConfig
	products  repository.ProductRepository
	sales     repository.SaleRepository
	settings  *SettingsService
	cache     cache.ReportCache
	newClient ClientFactory
}

func NewSyncService(
	cfg config.MercadoLivreConfig,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	settings *SettingsService,
	cacheImpl cache.ReportCache,
	factory ClientFactory,
) *SyncService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	s := &SyncService{
		cfg:      cfg,
		products: products,
		sales:    sales,
		settings: settings,
		cache:    cacheImpl,
	}
	if factory == nil {
		factory = func(creds mercadolivre.Credentials, onRefresh func(mercadolivre.Credentials)) MarketClient {
			return mercadolivre.NewClient(cfg.AppID, cfg.SecretKey, cfg.RedirectURI, creds, onRefresh)
		}
	}
	s.newClient = factory
	return s
}

// Configured reports whether OAuth app credentials are present in config.
func (s *SyncService) Configured() bool {
	return s.cfg.AppID != "" && s.cfg.SecretKey != ""
}

// AuthURL returns the marketplace authorization page to send the seller to.
func (s *SyncService) AuthURL(state string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConnected
	}
	return s.newClient(mercadolivre.Credentials{}, nil).AuthURL(state), nil
}

// Connect finishes the OAuth dance: trades the code for tokens and persists
// them in settings.
func (s *SyncService) Connect(ctx context.Context, code string) error {
	if !s.Configured() {
		return ErrNotConnected
	}
	client := s.newClient(mercadolivre.Credentials{}, nil)
	creds, err := client.Exchange(ctx, code)
	if err != nil {
		return err
	}
	if creds.UserID == 0 {
		// Some token responses omit user_id; resolve it explicitly.
		user, err := client.Me(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve account after connect: %w", err)
		}
		creds.UserID = user.ID
	}
	return s.settings.SaveCredentials(ctx, domain.MLCredentials{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		ExpiresAt:    creds.ExpiresAt,
		UserID:       creds.UserID,
	})
}

// Status reports the current connection state.
func (s *SyncService) Status(ctx context.Context) (*SyncStatus, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncStatus{
		Configured: s.Configured(),
		Connected:  settings.MLCredentials.Connected(),
		UserID:     settings.MLCredentials.UserID,
	}, nil
}

// ImportProducts pulls the seller's listings and creates catalog products for
// any not yet imported. Existing ones are left alone so user-entered costs
// survive.
func (s *SyncService) ImportProducts(ctx context.Context) (*ImportResult, error) {
	client, err := s.connectedClient(ctx)
	if err != nil {
		return nil, err
	}

	items, err := client.SellerItems(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, item := range items {
		if _, err := s.products.GetByMLItemID(ctx, item.ID); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}

		product := mercadolivre.ItemToProduct(item)
		if err := s.products.Create(ctx, &product); err != nil {
			return nil, fmt.Errorf("failed to import item %s: %w", item.ID, err)
		}
		result.Imported++
	}

	s.invalidateReports(ctx)
	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("ml product import finished")
	return result, nil
}

// ImportOrders pulls orders in the date interval and records them as sales.
// Orders for never-imported items and orders already recorded are skipped.
func (s *SyncService) ImportOrders(ctx context.Context, from, to time.Time) (*ImportResult, error) {
	client, err := s.connectedClient(ctx)
	if err != nil {
		return nil, err
	}

	orders, err := client.Orders(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, order := range orders {
		if len(order.OrderItems) == 0 {
			result.Skipped++
			continue
		}

		product, err := s.products.GetByMLItemID(ctx, order.OrderItems[0].Item.ID)
		if errors.Is(err, repository.ErrNotFound) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}

		mlOrderID := fmt.Sprintf("%d", order.ID)
		exists, err := s.sales.ExistsByMLOrderID(ctx, mlOrderID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		var shippingCost float64
		if order.Shipping.ID != 0 {
			shippingCost, err = client.ShipmentCost(ctx, order.Shipping.ID)
			if err != nil {
				log.Warn().Err(err).Int64("order", order.ID).Msg("could not fetch shipment cost, recording zero")
				shippingCost = 0
			}
		}

		sale := mercadolivre.OrderToSale(order, shippingCost, product.ID)
		if sale == nil {
			result.Skipped++
			continue
		}
		if err := s.sales.Create(ctx, sale); err != nil {
			return nil, fmt.Errorf("failed to import order %d: %w", order.ID, err)
		}
		result.Imported++
	}

	s.invalidateReports(ctx)
	log.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("ml order import finished")
	return result, nil
}

// connectedClient builds a client from stored credentials, wiring token
// renewals back into the settings store.
func (s *SyncService) connectedClient(ctx context.Context) (MarketClient, error) {
	if !s.Configured() {
		return nil, ErrNotConnected
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	stored := settings.MLCredentials
	if !stored.Connected() {
		return nil, ErrNotConnected
	}

	creds := mercadolivre.Credentials{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		ExpiresAt:    stored.ExpiresAt,
		UserID:       stored.UserID,
	}
	onRefresh := func(updated mercadolivre.Credentials) {
		err := s.settings.SaveCredentials(ctx, domain.MLCredentials{
			AccessToken:  updated.AccessToken,
			RefreshToken: updated.RefreshToken,
			ExpiresAt:    updated.ExpiresAt,
			UserID:       updated.UserID,
		})
		if err != nil {
			log.Warn().Err(err).Msg("could not persist refreshed ml token")
		}
	}
	return s.newClient(creds, onRefresh), nil
}

func (s *SyncService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("sync: report cache invalidation failed")
	}
}
