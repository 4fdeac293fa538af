package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
)

type saleRepository struct {
	db *DB
}

func NewSaleRepository(db *DB) repository.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, s *domain.Sale) error {
	query := `
		INSERT INTO sales (
			date, product_id, quantity, unit_price, shipping_cost,
			returned, return_cost, return_reason, campaign_id, notes,
			ml_order_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.Date, s.ProductID, s.Quantity, s.UnitPrice, s.ShippingCost,
		s.Returned, s.ReturnCost, s.ReturnReason, s.CampaignID, s.Notes,
		s.MLOrderID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// Replace overwrites every field of an existing sale. There is no partial
// update: an edit is a full re-entry of the record.
func (r *saleRepository) Replace(ctx context.Context, s *domain.Sale) error {
	query := `
		UPDATE sales SET
			date = $2, product_id = $3, quantity = $4, unit_price = $5,
			shipping_cost = $6, returned = $7, return_cost = $8,
			return_reason = $9, campaign_id = $10, notes = $11,
			ml_order_id = $12, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		s.ID, s.Date, s.ProductID, s.Quantity, s.UnitPrice,
		s.ShippingCost, s.Returned, s.ReturnCost,
		s.ReturnReason, s.CampaignID, s.Notes, s.MLOrderID,
	)
	if err != nil {
		return fmt.Errorf("failed to replace sale: %w", err)
	}
	return checkAffected(res)
}

func (r *saleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return checkAffected(res)
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	var s domain.Sale
	err := r.db.GetContext(ctx, &s, `SELECT * FROM sales WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	return &s, nil
}

func (r *saleRepository) List(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.SelectContext(ctx, &sales, `SELECT * FROM sales ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

func (r *saleRepository) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	var sales []domain.Sale
	query := `SELECT * FROM sales WHERE date >= $1 AND date <= $2 ORDER BY date DESC, id DESC`
	err := r.db.SelectContext(ctx, &sales, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales between dates: %w", err)
	}
	return sales, nil
}

func (r *saleRepository) ExistsByMLOrderID(ctx context.Context, mlOrderID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE ml_order_id = $1)`, mlOrderID)
	if err != nil {
		return false, fmt.Errorf("failed to check ml order id: %w", err)
	}
	return exists, nil
}
