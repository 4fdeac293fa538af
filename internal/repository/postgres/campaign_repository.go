package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
)

type campaignRepository struct {
	db *DB
}

func NewCampaignRepository(db *DB) repository.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (
			name, start_date, end_date, total_spend, product_ids, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		c.Name, c.StartDate, c.EndDate, c.TotalSpend, c.ProductIDs, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}
	return nil
}

func (r *campaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	query := `
		UPDATE campaigns SET
			name = $2, start_date = $3, end_date = $4, total_spend = $5,
			product_ids = $6, status = $7, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.StartDate, c.EndDate, c.TotalSpend, c.ProductIDs, c.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return checkAffected(res)
}

// Delete removes the campaign and unlinks its sales in one transaction, so
// historical records never keep an ad cost from a campaign that is gone.
func (r *campaignRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE sales SET campaign_id = NULL WHERE campaign_id = $1`, id); err != nil {
			return fmt.Errorf("failed to unlink campaign sales: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete campaign: %w", err)
		}
		return checkAffected(res)
	})
}

func (r *campaignRepository) GetByID(ctx context.Context, id int64) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.GetContext(ctx, &c, `SELECT * FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

func (r *campaignRepository) List(ctx context.Context) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	err := r.db.SelectContext(ctx, &campaigns, `SELECT * FROM campaigns ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}
