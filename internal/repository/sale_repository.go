package repository

import (
	"context"
	"time"

	"github.com/lucroml/backend-go/internal/domain"
)

// SaleRepository is the transaction log. Updates replace the whole record.
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	Replace(ctx context.Context, s *domain.Sale) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	ExistsByMLOrderID(ctx context.Context, mlOrderID string) (bool, error)
}
