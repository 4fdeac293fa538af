package service

import (
	"context"
	"fmt"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/calc"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// SaleWithBreakdown pairs a sale with its computed profit decomposition.
type SaleWithBreakdown struct {
	Sale      domain.Sale            `json:"sale"`
	Breakdown domain.ProfitBreakdown `json:"breakdown"`
}

type SalesService struct {
	sales      repository.SaleRepository
	products   repository.ProductRepository
	campaigns  repository.CampaignRepository
	settings   *SettingsService
	calculator *calc.Calculator
	cache      cache.ReportCache
}

func NewSalesService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	campaigns repository.CampaignRepository,
	settings *SettingsService,
	calculator *calc.Calculator,
	cacheImpl cache.ReportCache,
) *SalesService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &SalesService{
		sales:      sales,
		products:   products,
		campaigns:  campaigns,
		settings:   settings,
		calculator: calculator,
		cache:      cacheImpl,
	}
}

func (s *SalesService) List(ctx context.Context) ([]domain.Sale, error) {
	return s.sales.List(ctx)
}

func (s *SalesService) Get(ctx context.Context, id int64) (*domain.Sale, error) {
	return s.sales.GetByID(ctx, id)
}

func (s *SalesService) Create(ctx context.Context, sale *domain.Sale) error {
	if err := s.validate(ctx, sale); err != nil {
		return err
	}
	if err := s.sales.Create(ctx, sale); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Replace overwrites an existing sale entirely; edits are full re-entries.
func (s *SalesService) Replace(ctx context.Context, sale *domain.Sale) error {
	if err := s.validate(ctx, sale); err != nil {
		return err
	}
	if err := s.sales.Replace(ctx, sale); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *SalesService) Delete(ctx context.Context, id int64) error {
	if err := s.sales.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Breakdown computes the realized profit decomposition of one sale.
func (s *SalesService) Breakdown(ctx context.Context, id int64) (*SaleWithBreakdown, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, sale.ProductID)
	if err != nil {
		return nil, fmt.Errorf("sale %d references missing product %d: %w", sale.ID, sale.ProductID, err)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}

	return &SaleWithBreakdown{
		Sale:      *sale,
		Breakdown: s.calculator.ForSale(sale, product, settings, campaigns),
	}, nil
}

func (s *SalesService) validate(ctx context.Context, sale *domain.Sale) error {
	if sale.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if sale.UnitPrice < 0 || sale.ShippingCost < 0 || sale.ReturnCost < 0 {
		return fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)
	}
	if sale.Returned && sale.ReturnReason != "" && !domain.ValidReturnReason(sale.ReturnReason) {
		return fmt.Errorf("%w: unknown return reason %q", ErrInvalidInput, sale.ReturnReason)
	}
	// The engine assumes every sale resolves to a product; enforce the link
	// here rather than inside the math.
	if _, err := s.products.GetByID(ctx, sale.ProductID); err != nil {
		return fmt.Errorf("%w: product %d not found", ErrInvalidInput, sale.ProductID)
	}
	if sale.CampaignID != nil {
		if _, err := s.campaigns.GetByID(ctx, *sale.CampaignID); err != nil {
			return fmt.Errorf("%w: campaign %d not found", ErrInvalidInput, *sale.CampaignID)
		}
	}
	return nil
}

func (s *SalesService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("sales: report cache invalidation failed")
	}
}
