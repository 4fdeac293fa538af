package main

import (
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/urfave/cli/v2"
)

type demoProduct struct {
	sku        string
	name       string
	category   string
	listPrice  float64
	unitCost   float64
	packaging  float64
	weightKg   float64
	listing    string
	fulfilled  bool
	returnRate float64
}

var demoProducts = []demoProduct{
	{"FONE-TWS-01", "Fone de Ouvido Bluetooth TWS", "Eletrônicos", 89.90, 32.00, 2.50, 0.15, "premium", true, 4},
	{"GARR-TERM-1L", "Garrafa Térmica Inox 1L", "Casa e Decoração", 64.90, 24.50, 3.00, 0.60, "premium", false, 2},
	{"CAPA-IP15-PT", "Capa Silicone iPhone 15 Preta", "Acessórios", 29.90, 6.80, 1.20, 0.05, "standard", false, 3},
	{"LUM-LED-RGB", "Luminária LED RGB com Controle", "Casa e Decoração", 119.90, 48.00, 4.00, 0.80, "premium", true, 5},
	{"KIT-ORG-GAV", "Kit 6 Organizadores de Gaveta", "Casa e Decoração", 49.90, 18.90, 2.80, 0.45, "standard", false, 2},
	{"SUP-CEL-MESA", "Suporte de Celular para Mesa", "Acessórios", 24.90, 7.50, 1.00, 0.12, "standard", false, 1},
	{"MOCH-NOTE-15", "Mochila para Notebook 15.6", "Moda", 139.90, 55.00, 3.50, 0.90, "premium", true, 6},
	{"BAL-DIG-COZ", "Balança Digital de Cozinha 10kg", "Casa e Decoração", 39.90, 14.20, 2.00, 0.35, "standard", false, 3},
}

// runDemo loads a small catalog with three months of sales so dashboards and
// the ABC report have something to show on a fresh install.
func runDemo(c *cli.Context) error {
	db := dbFrom(c)
	rng := rand.New(rand.NewSource(42))

	var count int
	if err := db.QueryRowContext(c.Context, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to inspect products table: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("products table is not empty, refusing to load demo data")
	}

	if err := seedSettings(c, db); err != nil {
		return err
	}

	productIDs := make([]int64, 0, len(demoProducts))
	for _, p := range demoProducts {
		var id int64
		err := db.QueryRowContext(c.Context, `
			INSERT INTO products (
				sku, name, category, list_price, unit_cost, packaging_cost,
				weight_kg, listing_type, uses_fulfillment, tax_rate,
				extra_fixed_cost, return_rate, status, ml_item_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 6, 0, $10, 'active', '')
			RETURNING id
		`, p.sku, p.name, p.category, p.listPrice, p.unitCost, p.packaging,
			p.weightKg, p.listing, p.fulfilled, p.returnRate).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert demo product %s: %w", p.sku, err)
		}
		productIDs = append(productIDs, id)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	campaignID, err := seedCampaign(c, db, now, productIDs)
	if err != nil {
		return err
	}

	inserted := 0
	for day := 0; day < 90; day++ {
		date := now.AddDate(0, 0, -day)
		// Weekends sell a bit less.
		perDay := 2 + rng.Intn(4)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			perDay = 1 + rng.Intn(3)
		}

		for i := 0; i < perDay; i++ {
			idx := rng.Intn(len(demoProducts))
			p := demoProducts[idx]
			qty := 1
			if rng.Float64() < 0.15 {
				qty = 2
			}

			var campaign sql.NullInt64
			if idx == 0 && day < 30 {
				campaign = sql.NullInt64{Int64: campaignID, Valid: true}
			}

			returned := rng.Float64()*100 < p.returnRate
			returnCost := 0.0
			returnReason := ""
			if returned {
				returnCost = p.listPrice * float64(qty)
				returnReason = "Arrependimento"
			}

			shipping := 0.0
			if p.listPrice >= 79 {
				shipping = 19.90 + rng.Float64()*10
			}

			_, err := db.ExecContext(c.Context, `
				INSERT INTO sales (
					date, product_id, quantity, unit_price, shipping_cost,
					returned, return_cost, return_reason, campaign_id, notes, ml_order_id
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', '')
			`, date, productIDs[idx], qty, p.listPrice, shipping,
				returned, returnCost, returnReason, campaign)
			if err != nil {
				return fmt.Errorf("failed to insert demo sale: %w", err)
			}
			inserted++
		}
	}

	log.Printf("demo data loaded: %d products, %d sales", len(productIDs), inserted)
	return nil
}

func seedSettings(c *cli.Context, db *sql.DB) error {
	_, err := db.ExecContext(c.Context, `
		INSERT INTO settings (
			id, store_name, company_type, default_tax_rate, default_listing_type,
			default_packaging_cost, min_margin_target, monthly_revenue_goal,
			fees, shipping_estimate, ml_credentials
		) VALUES (
			1, 'Loja Demo', 'MEI', 6, 'premium', 2, 15, 25000,
			'{"standard": 12, "premium": 16, "fixed_per_sale": 0, "fulfillment_surcharge": 6}',
			'{"mode": "by_weight", "weight_bands": [
				{"min_kg": 0, "max_kg": 0.5, "cost": 39.90},
				{"min_kg": 0.5, "max_kg": 1, "cost": 42.90},
				{"min_kg": 1, "max_kg": 2, "cost": 44.90},
				{"min_kg": 2, "max_kg": 5, "cost": 49.90},
				{"min_kg": 5, "max_kg": 9, "cost": 58.90}
			]}',
			'{}'
		)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}

func seedCampaign(c *cli.Context, db *sql.DB, now time.Time, productIDs []int64) (int64, error) {
	var id int64
	err := db.QueryRowContext(c.Context, `
		INSERT INTO campaigns (name, start_date, end_date, total_spend, product_ids, status)
		VALUES ('Ads Fones - Mês Atual', $1, $2, 450.00, $3, 'active')
		RETURNING id
	`, now.AddDate(0, 0, -30), now, fmt.Sprintf("{%d}", productIDs[0])).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to seed campaign: %w", err)
	}
	return id, nil
}
