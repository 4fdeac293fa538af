package calc

import "github.com/lucroml/backend-go/internal/domain"

// AdCostFunc resolves the ad spend attributed to a single sale.
type AdCostFunc func(sale *domain.Sale, campaigns []domain.Campaign) float64

// Calculator computes profit breakdowns. The ad-cost attribution step is
// swappable; everything else is fixed arithmetic.
type Calculator struct {
	adCost AdCostFunc
}

// New returns a Calculator with the historical attribution rule
// (SpreadOverAllCampaigns).
func New() *Calculator {
	return &Calculator{adCost: SpreadOverAllCampaigns}
}

// NewWithAdCost returns a Calculator using a custom ad-cost attribution rule.
func NewWithAdCost(fn AdCostFunc) *Calculator {
	if fn == nil {
		fn = SpreadOverAllCampaigns
	}
	return &Calculator{adCost: fn}
}

// SpreadOverAllCampaigns divides the referenced campaign's total spend by the
// count of ALL campaigns in the system, not by the sales attributed to it.
// This matches the spreadsheet the seller ran before this service existed and
// stays the default so historical reports keep their numbers.
func SpreadOverAllCampaigns(sale *domain.Sale, campaigns []domain.Campaign) float64 {
	if sale.CampaignID == nil {
		return 0
	}
	for _, c := range campaigns {
		if c.ID == *sale.CampaignID {
			n := len(campaigns)
			if n < 1 {
				n = 1
			}
			return c.TotalSpend / float64(n)
		}
	}
	return 0
}

// SpreadOverCampaignSales builds the alternative attribution rule: spend is
// divided by the number of sales actually linked to the referenced campaign.
// Opt-in via NewWithAdCost; switching it changes every historical margin.
func SpreadOverCampaignSales(sales []domain.Sale) AdCostFunc {
	linked := make(map[int64]int)
	for _, s := range sales {
		if s.CampaignID != nil {
			linked[*s.CampaignID]++
		}
	}
	return func(sale *domain.Sale, campaigns []domain.Campaign) float64 {
		if sale.CampaignID == nil {
			return 0
		}
		for _, c := range campaigns {
			if c.ID == *sale.CampaignID {
				n := linked[c.ID]
				if n < 1 {
					n = 1
				}
				return c.TotalSpend / float64(n)
			}
		}
		return 0
	}
}

// ForSale computes the realized breakdown of one sale event. Shipping is the
// actual amount paid and the return cost is the recorded one, charged only
// when the sale was returned.
func (c *Calculator) ForSale(sale *domain.Sale, product *domain.Product, settings *domain.Settings, campaigns []domain.Campaign) domain.ProfitBreakdown {
	qty := float64(sale.Quantity)
	revenue := sale.UnitPrice * qty

	rate := settings.Fees.RateFor(product.ListingType)
	percentFee := revenue * (rate / 100)
	fixedFee := FixedFee(sale.UnitPrice) * qty

	var fulfillmentFee float64
	if product.UsesFulfillment {
		fulfillmentFee = settings.Fees.FulfillmentSurcharge * qty
	}
	totalFees := percentFee + fixedFee + fulfillmentFee

	tax := revenue * (product.TaxRate / 100)
	productCost := product.UnitCost * qty
	fixedCosts := product.PackagingCost + product.ExtraFixedCost*qty

	var returnCost float64
	if sale.Returned {
		returnCost = sale.ReturnCost
	}

	adCost := c.adCost(sale, campaigns)

	totalCost := totalFees + tax + sale.ShippingCost + productCost + fixedCosts + returnCost + adCost
	netProfit := revenue - totalCost

	return domain.ProfitBreakdown{
		GrossRevenue:    revenue,
		PercentFee:      percentFee,
		FixedFee:        fixedFee,
		FulfillmentFee:  fulfillmentFee,
		TotalMarketFees: totalFees,
		Tax:             tax,
		ProductCost:     productCost,
		FixedCosts:      fixedCosts,
		ShippingCost:    sale.ShippingCost,
		ReturnCost:      returnCost,
		AdCost:          adCost,
		TotalCost:       totalCost,
		NetProfit:       netProfit,
		MarginPercent:   marginPercent(netProfit, revenue),
	}
}

// ForProduct computes the theoretical breakdown of one catalog unit at list
// price. Shipping is the table estimate and the return cost is a provision:
// revenue times the product's expected return rate.
func (c *Calculator) ForProduct(product *domain.Product, settings *domain.Settings) domain.ProfitBreakdown {
	revenue := product.ListPrice

	rate := settings.Fees.RateFor(product.ListingType)
	percentFee := revenue * (rate / 100)
	fixedFee := FixedFee(product.ListPrice)

	var fulfillmentFee float64
	if product.UsesFulfillment {
		fulfillmentFee = settings.Fees.FulfillmentSurcharge
	}
	totalFees := percentFee + fixedFee + fulfillmentFee

	tax := revenue * (product.TaxRate / 100)
	shipping := EstimatedShipping(product.ListPrice, product.WeightKg, settings)
	fixedCosts := product.PackagingCost + product.ExtraFixedCost
	returnProvision := revenue * (product.ReturnRate / 100)

	totalCost := totalFees + tax + shipping + product.UnitCost + fixedCosts + returnProvision
	netProfit := revenue - totalCost

	return domain.ProfitBreakdown{
		GrossRevenue:    revenue,
		PercentFee:      percentFee,
		FixedFee:        fixedFee,
		FulfillmentFee:  fulfillmentFee,
		TotalMarketFees: totalFees,
		Tax:             tax,
		ProductCost:     product.UnitCost,
		FixedCosts:      fixedCosts,
		ShippingCost:    shipping,
		ReturnCost:      returnProvision,
		AdCost:          0,
		TotalCost:       totalCost,
		NetProfit:       netProfit,
		MarginPercent:   marginPercent(netProfit, revenue),
	}
}

func marginPercent(netProfit, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return netProfit / revenue * 100
}
