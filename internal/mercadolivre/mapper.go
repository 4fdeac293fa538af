package mercadolivre

import (
	"strconv"
	"strings"
	"time"

	"github.com/lucroml/backend-go/internal/domain"
)

// Default assumptions for imported records the marketplace does not provide.
const (
	defaultImportTaxRate    = 6
	defaultImportReturnRate = 3
	defaultImportWeightKg   = 0.5
)

// ItemToProduct maps a marketplace listing onto a catalog product. Costs are
// zeroed because the marketplace has no idea what the seller pays; the user
// fills them in afterwards.
func ItemToProduct(item Item) domain.Product {
	listingType := domain.ListingStandard
	if item.ListingTypeID == "gold_special" || item.ListingTypeID == "gold_pro" {
		listingType = domain.ListingPremium
	}

	status := domain.ProductInactive
	if item.Status == "active" {
		status = domain.ProductActive
	}

	// Marketplace category ids (MLB...) mean nothing locally; fold anything
	// outside the known groupings into the catch-all.
	category := item.CategoryID
	if !domain.ValidCategory(category) {
		category = "Outro"
	}

	name := item.Title
	if name == "" {
		name = "Sem título"
	}

	return domain.Product{
		SKU:             item.ID,
		Name:            name,
		Category:        category,
		ListPrice:       item.Price,
		WeightKg:        weightFromDimensions(item.Shipping.Dimensions),
		ListingType:     listingType,
		UsesFulfillment: item.Shipping.LogisticType == "fulfillment",
		TaxRate:         defaultImportTaxRate,
		ReturnRate:      defaultImportReturnRate,
		Status:          status,
		MLItemID:        item.ID,
	}
}

// OrderToSale maps a marketplace order onto a sale for an already-imported
// product. Cancelled orders come in as returned sales refunding the full
// amount. Returns nil when the order has no line items.
func OrderToSale(order Order, shippingCost float64, productID int64) *domain.Sale {
	if len(order.OrderItems) == 0 {
		return nil
	}
	line := order.OrderItems[0]

	quantity := line.Quantity
	if quantity < 1 {
		quantity = 1
	}

	date := time.Now().Truncate(24 * time.Hour)
	if order.DateCreated != "" {
		if parsed, err := time.Parse("2006-01-02", strings.SplitN(order.DateCreated, "T", 2)[0]); err == nil {
			date = parsed
		}
	}

	sale := &domain.Sale{
		Date:         date,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPrice:    line.UnitPrice,
		ShippingCost: shippingCost,
		MLOrderID:    strconv.FormatInt(order.ID, 10),
	}

	if order.Status == "cancelled" {
		sale.Returned = true
		sale.ReturnCost = line.UnitPrice * float64(quantity)
		sale.ReturnReason = "Cancelamento ML"
	}

	return sale
}

// weightFromDimensions reads the leading component of the "LxWxH,grams"
// dimension string and treats it as grams, falling back to half a kilo when
// it cannot be parsed.
func weightFromDimensions(dimensions string) float64 {
	if dimensions == "" {
		return defaultImportWeightKg
	}
	first := strings.SplitN(dimensions, "x", 2)[0]
	grams, err := strconv.ParseFloat(strings.TrimSpace(first), 64)
	if err != nil || grams <= 0 {
		return defaultImportWeightKg
	}
	return grams / 1000
}
