package service

import (
	"context"
	"fmt"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

type CampaignService struct {
	campaigns repository.CampaignRepository
	cache     cache.ReportCache
}

func NewCampaignService(campaigns repository.CampaignRepository, cacheImpl cache.ReportCache) *CampaignService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &CampaignService{campaigns: campaigns, cache: cacheImpl}
}

func (s *CampaignService) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx)
}

func (s *CampaignService) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *CampaignService) Create(ctx context.Context, c *domain.Campaign) error {
	if err := s.validate(c); err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = domain.CampaignActive
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *CampaignService) Update(ctx context.Context, c *domain.Campaign) error {
	if err := s.validate(c); err != nil {
		return err
	}
	if err := s.campaigns.Update(ctx, c); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *CampaignService) Delete(ctx context.Context, id int64) error {
	if err := s.campaigns.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateReports(ctx)
	return nil
}

func (s *CampaignService) validate(c *domain.Campaign) error {
	if c.Name == "" {
		return fmt.Errorf("%w: campaign name is required", ErrInvalidInput)
	}
	if c.TotalSpend < 0 {
		return fmt.Errorf("%w: total spend must be non-negative", ErrInvalidInput)
	}
	if c.Status != "" && c.Status != domain.CampaignActive && c.Status != domain.CampaignPaused && c.Status != domain.CampaignEnded {
		return fmt.Errorf("%w: unknown campaign status %q", ErrInvalidInput, c.Status)
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: campaign ends before it starts", ErrInvalidInput)
	}
	return nil
}

func (s *CampaignService) invalidateReports(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("campaigns: report cache invalidation failed")
	}
}
