package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id               BIGSERIAL PRIMARY KEY,
	sku              TEXT NOT NULL DEFAULT '',
	name             TEXT NOT NULL,
	category         TEXT NOT NULL DEFAULT 'Outros',
	list_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit_cost        DOUBLE PRECISION NOT NULL DEFAULT 0,
	packaging_cost   DOUBLE PRECISION NOT NULL DEFAULT 0,
	weight_kg        DOUBLE PRECISION NOT NULL DEFAULT 0,
	listing_type     TEXT NOT NULL DEFAULT 'premium',
	uses_fulfillment BOOLEAN NOT NULL DEFAULT FALSE,
	tax_rate         DOUBLE PRECISION NOT NULL DEFAULT 0,
	extra_fixed_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	return_rate      DOUBLE PRECISION NOT NULL DEFAULT 0,
	status           TEXT NOT NULL DEFAULT 'active',
	ml_item_id       TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_ml_item_id ON products (ml_item_id) WHERE ml_item_id <> '';

CREATE TABLE IF NOT EXISTS campaigns (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	start_date  TIMESTAMPTZ NOT NULL,
	end_date    TIMESTAMPTZ NOT NULL,
	total_spend DOUBLE PRECISION NOT NULL DEFAULT 0,
	product_ids BIGINT[] NOT NULL DEFAULT '{}',
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sales (
	id            BIGSERIAL PRIMARY KEY,
	date          TIMESTAMPTZ NOT NULL,
	product_id    BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
	quantity      INTEGER NOT NULL DEFAULT 1,
	unit_price    DOUBLE PRECISION NOT NULL DEFAULT 0,
	shipping_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	returned      BOOLEAN NOT NULL DEFAULT FALSE,
	return_cost   DOUBLE PRECISION NOT NULL DEFAULT 0,
	return_reason TEXT NOT NULL DEFAULT '',
	campaign_id   BIGINT REFERENCES campaigns (id) ON DELETE SET NULL,
	notes         TEXT NOT NULL DEFAULT '',
	ml_order_id   TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (date);
CREATE INDEX IF NOT EXISTS idx_sales_product_id ON sales (product_id);
CREATE INDEX IF NOT EXISTS idx_sales_ml_order_id ON sales (ml_order_id) WHERE ml_order_id <> '';

CREATE TABLE IF NOT EXISTS settings (
	id                     SMALLINT PRIMARY KEY CHECK (id = 1),
	store_name             TEXT NOT NULL DEFAULT '',
	company_type           TEXT NOT NULL DEFAULT 'MEI',
	default_tax_rate       DOUBLE PRECISION NOT NULL DEFAULT 6,
	default_listing_type   TEXT NOT NULL DEFAULT 'premium',
	default_packaging_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
	min_margin_target      DOUBLE PRECISION NOT NULL DEFAULT 15,
	monthly_revenue_goal   DOUBLE PRECISION NOT NULL DEFAULT 0,
	fees                   JSONB NOT NULL DEFAULT '{}',
	shipping_estimate      JSONB NOT NULL DEFAULT '{}',
	ml_credentials         JSONB NOT NULL DEFAULT '{}',
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func runInit(c *cli.Context) error {
	db := dbFrom(c)
	if _, err := db.ExecContext(c.Context, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("schema applied")
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Create the database schema and load demo data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create tables and indexes",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runInit,
			},
			{
				Name:   "demo",
				Usage:  "Load a small demo catalog with sales history",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
