package repository

import (
	"context"

	"github.com/lucroml/backend-go/internal/domain"
)

// ProductRepository is the catalog store.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByMLItemID(ctx context.Context, mlItemID string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
