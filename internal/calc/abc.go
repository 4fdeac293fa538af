package calc

import (
	"sort"

	"github.com/lucroml/backend-go/internal/domain"
)

// Classify ranks products by total net profit over the sales history and
// assigns Pareto classes: cumulative share ≤ 80% → A, ≤ 95% → B, else C.
// Products with zero or negative total profit are dropped from the ranking.
func (c *Calculator) Classify(products []domain.Product, sales []domain.Sale, settings *domain.Settings, campaigns []domain.Campaign) []domain.ABCEntry {
	entries := make([]domain.ABCEntry, 0, len(products))
	for i := range products {
		product := products[i]

		var total float64
		for j := range sales {
			if sales[j].ProductID != product.ID {
				continue
			}
			b := c.ForSale(&sales[j], &product, settings, campaigns)
			total += b.NetProfit
		}
		if total <= 0 {
			continue
		}
		entries = append(entries, domain.ABCEntry{Product: product, TotalProfit: total})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalProfit > entries[j].TotalProfit
	})

	var grandTotal float64
	for _, e := range entries {
		grandTotal += e.TotalProfit
	}

	var cumulative float64
	for i := range entries {
		var percent float64
		if grandTotal > 0 {
			percent = entries[i].TotalProfit / grandTotal * 100
		}
		cumulative += percent

		entries[i].Percent = percent
		entries[i].Cumulative = cumulative
		switch {
		case cumulative <= 80:
			entries[i].Class = domain.ClassA
		case cumulative <= 95:
			entries[i].Class = domain.ClassB
		default:
			entries[i].Class = domain.ClassC
		}
	}

	return entries
}
