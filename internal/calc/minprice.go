package calc

import (
	"math"

	"github.com/lucroml/backend-go/internal/domain"
)

// MinimumPrice inverts the per-unit formula to find the lowest sale price with
// non-negative margin:
//
//	price = (fixedCosts + fulfillmentSurcharge) / (1 - rate% - tax%)
//
// The fee tier and shipping estimate are taken at the product's current list
// price rather than re-solved at the candidate price; near a tier boundary the
// true fixed point can sit one tier over, which is accepted. The result is
// rounded up to the nearest 0.10.
//
// When commission plus tax consume 100% or more of revenue there is no price
// that breaks even; the function returns three times the fixed costs so the
// caller still gets a usable reference value.
func (c *Calculator) MinimumPrice(product *domain.Product, settings *domain.Settings) float64 {
	rate := settings.Fees.RateFor(product.ListingType)

	shipping := EstimatedShipping(product.ListPrice, product.WeightKg, settings)
	fixedFee := FixedFee(product.ListPrice)

	fixedCosts := product.UnitCost + product.PackagingCost + product.ExtraFixedCost + shipping + fixedFee

	var surcharge float64
	if product.UsesFulfillment {
		surcharge = settings.Fees.FulfillmentSurcharge
	}

	divisor := 1 - rate/100 - product.TaxRate/100
	if divisor <= 0 {
		return fixedCosts * 3
	}

	price := (fixedCosts + surcharge) / divisor
	return math.Ceil(price*10) / 10
}
