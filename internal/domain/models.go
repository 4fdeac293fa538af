package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Listing types supported by the marketplace.
const (
	ListingStandard = "standard"
	ListingPremium  = "premium"
)

// Product lifecycle statuses.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
)

// Campaign statuses.
const (
	CampaignActive = "active"
	CampaignPaused = "paused"
	CampaignEnded  = "ended"
)

// Categories the seller lists in. Free-form values are rejected at the API
// boundary so report groupings stay stable.
var Categories = []string{
	"Eletrônicos", "Acessórios", "Casa e Decoração", "Moda",
	"Beleza", "Esportes", "Automotivo", "Brinquedos",
	"Informática", "Ferramentas", "Outro",
}

// ReturnReasons accepted on a returned sale.
var ReturnReasons = []string{
	"Defeito", "Arrependimento", "Produto Errado", "Dano no Transporte", "Outro",
}

// ValidCategory reports whether the category is one of the known groupings.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidReturnReason reports whether the reason is one of the accepted values.
func ValidReturnReason(reason string) bool {
	for _, r := range ReturnReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Product is a catalog entry. List price and costs here are catalog values;
// historical sales snapshot their own effective price and shipping.
type Product struct {
	ID              int64     `json:"id" db:"id"`
	SKU             string    `json:"sku" db:"sku"`
	Name            string    `json:"name" db:"name"`
	Category        string    `json:"category" db:"category"`
	ListPrice       float64   `json:"list_price" db:"list_price"`
	UnitCost        float64   `json:"unit_cost" db:"unit_cost"`
	PackagingCost   float64   `json:"packaging_cost" db:"packaging_cost"`
	WeightKg        float64   `json:"weight_kg" db:"weight_kg"`
	ListingType     string    `json:"listing_type" db:"listing_type"`
	UsesFulfillment bool      `json:"uses_fulfillment" db:"uses_fulfillment"`
	TaxRate         float64   `json:"tax_rate" db:"tax_rate"`
	ExtraFixedCost  float64   `json:"extra_fixed_cost" db:"extra_fixed_cost"`
	ReturnRate      float64   `json:"return_rate" db:"return_rate"`
	Status          string    `json:"status" db:"status"`
	MLItemID        string    `json:"ml_item_id,omitempty" db:"ml_item_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Sale is a single transaction event. Edits replace the whole record; there
// is no partial update path.
type Sale struct {
	ID           int64     `json:"id" db:"id"`
	Date         time.Time `json:"date" db:"date"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    float64   `json:"unit_price" db:"unit_price"`
	ShippingCost float64   `json:"shipping_cost" db:"shipping_cost"`
	Returned     bool      `json:"returned" db:"returned"`
	ReturnCost   float64   `json:"return_cost" db:"return_cost"`
	ReturnReason string    `json:"return_reason,omitempty" db:"return_reason"`
	CampaignID   *int64    `json:"campaign_id,omitempty" db:"campaign_id"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	MLOrderID    string    `json:"ml_order_id,omitempty" db:"ml_order_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Campaign is an ad investment record. Spend is attributed to sales that
// reference the campaign id.
type Campaign struct {
	ID         int64         `json:"id" db:"id"`
	Name       string        `json:"name" db:"name"`
	StartDate  time.Time     `json:"start_date" db:"start_date"`
	EndDate    time.Time     `json:"end_date" db:"end_date"`
	TotalSpend float64       `json:"total_spend" db:"total_spend"`
	ProductIDs pq.Int64Array `json:"product_ids" db:"product_ids"`
	Status     string        `json:"status" db:"status"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

// FeeRates holds the marketplace fee table: percentage commission per listing
// type, fixed per-sale fee and the fulfillment program surcharge. Rates are
// percentages (16 means 16%).
type FeeRates struct {
	Standard float64 `json:"standard"`
	Premium  float64 `json:"premium"`
	// FixedPerSale is kept for the stored settings shape; the applied fixed
	// fee comes from the price-tiered table, not from this value.
	FixedPerSale         float64 `json:"fixed_per_sale"`
	FulfillmentSurcharge float64 `json:"fulfillment_surcharge"`
}

// Shipping estimate modes.
const (
	ShippingFlat     = "flat"
	ShippingByWeight = "by_weight"
)

// WeightBand is a half-open weight interval [MinKg, MaxKg) and its gross
// shipping cost.
type WeightBand struct {
	MinKg float64 `json:"min_kg"`
	MaxKg float64 `json:"max_kg"`
	Cost  float64 `json:"cost"`
}

// ShippingEstimate configures catalog-level shipping previews: a flat gross
// amount, or a weight-banded table.
type ShippingEstimate struct {
	Mode        string       `json:"mode"`
	FlatValue   float64      `json:"flat_value"`
	WeightBands []WeightBand `json:"weight_bands,omitempty"`
}

// MLCredentials is the stored OAuth state of the linked Mercado Livre
// account. Empty when no account is connected.
type MLCredentials struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	UserID       int64     `json:"user_id,omitempty"`
}

// Connected reports whether a marketplace account has been linked.
func (c MLCredentials) Connected() bool {
	return c.RefreshToken != ""
}

// Value implements driver.Valuer so credentials persist as JSONB.
func (c MLCredentials) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for the JSONB credentials column.
func (c *MLCredentials) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// Settings is the single-row global configuration.
type Settings struct {
	ID                   int64            `json:"id" db:"id"`
	StoreName            string           `json:"store_name" db:"store_name"`
	CompanyType          string           `json:"company_type" db:"company_type"`
	DefaultTaxRate       float64          `json:"default_tax_rate" db:"default_tax_rate"`
	DefaultListingType   string           `json:"default_listing_type" db:"default_listing_type"`
	DefaultPackagingCost float64          `json:"default_packaging_cost" db:"default_packaging_cost"`
	MinMarginTarget      float64          `json:"min_margin_target" db:"min_margin_target"`
	MonthlyRevenueGoal   float64          `json:"monthly_revenue_goal" db:"monthly_revenue_goal"`
	Fees                 FeeRates         `json:"fees" db:"fees"`
	ShippingEstimate     ShippingEstimate `json:"shipping_estimate" db:"shipping_estimate"`
	MLCredentials        MLCredentials    `json:"ml_credentials" db:"ml_credentials"`
	UpdatedAt            time.Time        `json:"updated_at" db:"updated_at"`
}

// RateFor returns the percentage commission for a listing type.
func (f FeeRates) RateFor(listingType string) float64 {
	if listingType == ListingPremium {
		return f.Premium
	}
	return f.Standard
}

// Value implements driver.Valuer so the fee table persists as JSONB.
func (f FeeRates) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner for the JSONB fee table column.
func (f *FeeRates) Scan(src interface{}) error {
	return scanJSON(src, f)
}

// Value implements driver.Valuer so the shipping table persists as JSONB.
func (s ShippingEstimate) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the JSONB shipping table column.
func (s *ShippingEstimate) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
