package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/calc"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrInvalidInput marks caller mistakes the API layer maps to 400s.
var ErrInvalidInput = errors.New("invalid input")

// ProductPreview is the pricing view of one catalog product: its theoretical
// per-unit breakdown, break-even price and whether the current margin misses
// the configured target.
type ProductPreview struct {
	Product      domain.Product         `json:"product"`
	Breakdown    domain.ProfitBreakdown `json:"breakdown"`
	MinimumPrice float64                `json:"minimum_price"`
	BelowTarget  bool                   `json:"below_target"`
}

type CatalogService struct {
	products   repository.ProductRepository
	settings   *SettingsService
	calculator *calc.Calculator
	cache      cache.ReportCache
}

func NewCatalogService(products repository.ProductRepository, settings *SettingsService, calculator *calc.Calculator, cacheImpl cache.ReportCache) *CatalogService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &CatalogService{
		products:   products,
		settings:   settings,
		calculator: calculator,
		cache:      cacheImpl,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, p *domain.Product) error {
	if err := s.validate(p); err != nil {
		return err
	}
	s.applyDefaults(ctx, p)
	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *CatalogService) Update(ctx context.Context, p *domain.Product) error {
	if err := s.validate(p); err != nil {
		return err
	}
	if err := s.products.Update(ctx, p); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

// Preview computes the catalog-level unit economics of one product under the
// current settings.
func (s *CatalogService) Preview(ctx context.Context, id int64) (*ProductPreview, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	breakdown := s.calculator.ForProduct(product, settings)
	return &ProductPreview{
		Product:      *product,
		Breakdown:    breakdown,
		MinimumPrice: s.calculator.MinimumPrice(product, settings),
		BelowTarget:  breakdown.MarginPercent < settings.MinMarginTarget,
	}, nil
}

// MinimumPrice returns the break-even price of one product.
func (s *CatalogService) MinimumPrice(ctx context.Context, id int64) (float64, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.calculator.MinimumPrice(product, settings), nil
}

func (s *CatalogService) validate(p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if p.ListPrice < 0 || p.UnitCost < 0 {
		return fmt.Errorf("%w: prices and costs must be non-negative", ErrInvalidInput)
	}
	if p.ListingType != "" && p.ListingType != domain.ListingStandard && p.ListingType != domain.ListingPremium {
		return fmt.Errorf("%w: unknown listing type %q", ErrInvalidInput, p.ListingType)
	}
	if p.Category != "" && !domain.ValidCategory(p.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, p.Category)
	}
	return nil
}

// applyDefaults fills gaps on a new product from the global configuration.
func (s *CatalogService) applyDefaults(ctx context.Context, p *domain.Product) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog: could not load settings for defaults")
		return
	}
	if p.ListingType == "" {
		p.ListingType = settings.DefaultListingType
	}
	if p.TaxRate == 0 {
		p.TaxRate = settings.DefaultTaxRate
	}
	if p.PackagingCost == 0 {
		p.PackagingCost = settings.DefaultPackagingCost
	}
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if p.Category == "" {
		p.Category = "Outro"
	}
}

func (s *CatalogService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("catalog: report cache invalidation failed")
	}
}
