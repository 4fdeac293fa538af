package repository

import (
	"context"

	"github.com/lucroml/backend-go/internal/domain"
)

// CampaignRepository is the ad campaign registry.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	Update(ctx context.Context, c *domain.Campaign) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
}
