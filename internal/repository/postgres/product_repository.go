package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (
			sku, name, category, list_price, unit_cost, packaging_cost,
			weight_kg, listing_type, uses_fulfillment, tax_rate,
			extra_fixed_cost, return_rate, status, ml_item_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW()
		)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		p.SKU, p.Name, p.Category, p.ListPrice, p.UnitCost, p.PackagingCost,
		p.WeightKg, p.ListingType, p.UsesFulfillment, p.TaxRate,
		p.ExtraFixedCost, p.ReturnRate, p.Status, p.MLItemID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products SET
			sku = $2, name = $3, category = $4, list_price = $5,
			unit_cost = $6, packaging_cost = $7, weight_kg = $8,
			listing_type = $9, uses_fulfillment = $10, tax_rate = $11,
			extra_fixed_cost = $12, return_rate = $13, status = $14,
			ml_item_id = $15, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.ListPrice,
		p.UnitCost, p.PackagingCost, p.WeightKg,
		p.ListingType, p.UsesFulfillment, p.TaxRate,
		p.ExtraFixedCost, p.ReturnRate, p.Status, p.MLItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return checkAffected(res)
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(res)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *productRepository) GetByMLItemID(ctx context.Context, mlItemID string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT * FROM products WHERE ml_item_id = $1`, mlItemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by ml item id: %w", err)
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
