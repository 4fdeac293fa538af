package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
)

type settingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var s domain.Settings
	err := r.db.GetContext(ctx, &s, `SELECT * FROM settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// Save upserts the single configuration row.
func (r *settingsRepository) Save(ctx context.Context, s *domain.Settings) error {
	query := `
		INSERT INTO settings (
			id, store_name, company_type, default_tax_rate,
			default_listing_type, default_packaging_cost, min_margin_target,
			monthly_revenue_goal, fees, shipping_estimate, ml_credentials,
			updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (id) DO UPDATE SET
			store_name = EXCLUDED.store_name,
			company_type = EXCLUDED.company_type,
			default_tax_rate = EXCLUDED.default_tax_rate,
			default_listing_type = EXCLUDED.default_listing_type,
			default_packaging_cost = EXCLUDED.default_packaging_cost,
			min_margin_target = EXCLUDED.min_margin_target,
			monthly_revenue_goal = EXCLUDED.monthly_revenue_goal,
			fees = EXCLUDED.fees,
			shipping_estimate = EXCLUDED.shipping_estimate,
			ml_credentials = EXCLUDED.ml_credentials,
			updated_at = NOW()
		RETURNING id, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		s.StoreName, s.CompanyType, s.DefaultTaxRate,
		s.DefaultListingType, s.DefaultPackagingCost, s.MinMarginTarget,
		s.MonthlyRevenueGoal, s.Fees, s.ShippingEstimate, s.MLCredentials,
	).Scan(&s.ID, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
