// Package calc is the profit engine: pure, stateless arithmetic over catalog,
// sales and campaign snapshots. Nothing in here touches storage or the network.
package calc

import "github.com/lucroml/backend-go/internal/domain"

// freeShippingThreshold is the price at which the marketplace stops charging
// the fixed fee and starts charging shipping instead.
const freeShippingThreshold = 79

// FixedFee returns the marketplace fixed fee for a sale price.
// Current table:
//
//	up to 12.49      → 50% of the price
//	12.50 to 29.00   → 6.25
//	29.01 to 50.00   → 6.50
//	50.01 to 78.99   → 6.75
//	79 and above     → 0
//
// Thresholds are checked descending, so a price sitting exactly on a
// breakpoint lands in the higher tier.
func FixedFee(price float64) float64 {
	switch {
	case price >= freeShippingThreshold:
		return 0
	case price >= 50.01:
		return 6.75
	case price >= 29.01:
		return 6.50
	case price >= 12.50:
		return 6.25
	default:
		return price * 0.50
	}
}

// EstimatedShipping returns the seller's share of estimated shipping for a
// catalog price and weight. Below the free-shipping threshold the buyer pays
// shipping, so the seller's cost is zero. At or above it, the gross cost comes
// from the configured flat value or the weight band table ([min, max); no
// matching band means 0), and the marketplace subsidizes exactly half.
//
// This estimate only backs catalog previews; realized sales carry the actual
// shipping paid.
func EstimatedShipping(price, weightKg float64, settings *domain.Settings) float64 {
	if price < freeShippingThreshold {
		return 0
	}

	var gross float64
	switch settings.ShippingEstimate.Mode {
	case domain.ShippingFlat:
		gross = settings.ShippingEstimate.FlatValue
	case domain.ShippingByWeight:
		for _, band := range settings.ShippingEstimate.WeightBands {
			if weightKg >= band.MinKg && weightKg < band.MaxKg {
				gross = band.Cost
				break
			}
		}
	}

	return gross * 0.5
}
