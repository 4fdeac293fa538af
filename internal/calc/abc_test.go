package calc

import (
	"testing"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abcFixture() ([]domain.Product, []domain.Sale, *domain.Settings) {
	settings := &domain.Settings{
		Fees: domain.FeeRates{Standard: 12, Premium: 16},
	}
	products := []domain.Product{
		{ID: 1, Name: "Big seller", ListingType: domain.ListingStandard, UnitCost: 10},
		{ID: 2, Name: "Mid seller", ListingType: domain.ListingStandard, UnitCost: 10},
		{ID: 3, Name: "Small seller", ListingType: domain.ListingStandard, UnitCost: 10},
		{ID: 4, Name: "Loss maker", ListingType: domain.ListingStandard, UnitCost: 500},
		{ID: 5, Name: "Never sold", ListingType: domain.ListingStandard, UnitCost: 10},
	}
	// All prices above the free-shipping threshold to keep fixed fees out of
	// the arithmetic. Each unit nets 78, so the profit shares come out at
	// 70/20/10 and the ranking spans all three classes.
	sales := []domain.Sale{
		{ID: 1, ProductID: 1, Quantity: 4, UnitPrice: 100},
		{ID: 2, ProductID: 1, Quantity: 3, UnitPrice: 100},
		{ID: 3, ProductID: 2, Quantity: 2, UnitPrice: 100},
		{ID: 4, ProductID: 3, Quantity: 1, UnitPrice: 100},
		{ID: 5, ProductID: 4, Quantity: 1, UnitPrice: 100},
	}
	return products, sales, settings
}

func TestClassifyOrderingAndCumulative(t *testing.T) {
	c := New()
	products, sales, settings := abcFixture()

	entries := c.Classify(products, sales, settings, nil)

	// Loss maker and never-sold product are excluded.
	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].Product.ID)
	assert.Equal(t, int64(2), entries[1].Product.ID)
	assert.Equal(t, int64(3), entries[2].Product.ID)

	// Profit strictly descending, cumulative non-decreasing and ending at 100%.
	prevCumulative := 0.0
	for i, e := range entries {
		if i > 0 {
			assert.LessOrEqual(t, e.TotalProfit, entries[i-1].TotalProfit)
		}
		assert.GreaterOrEqual(t, e.Cumulative, prevCumulative)
		prevCumulative = e.Cumulative
	}
	assert.InDelta(t, 100, entries[len(entries)-1].Cumulative, 1e-6)
}

func TestClassifyClasses(t *testing.T) {
	c := New()
	products, sales, settings := abcFixture()

	entries := c.Classify(products, sales, settings, nil)
	require.Len(t, entries, 3)

	for _, e := range entries {
		switch {
		case e.Cumulative <= 80:
			assert.Equal(t, domain.ClassA, e.Class)
		case e.Cumulative <= 95:
			assert.Equal(t, domain.ClassB, e.Class)
		default:
			assert.Equal(t, domain.ClassC, e.Class)
		}
	}
	// Cumulative shares of 70, 90 and 100 land one product in each class.
	assert.Equal(t, domain.ClassA, entries[0].Class)
	assert.Equal(t, domain.ClassB, entries[1].Class)
	assert.Equal(t, domain.ClassC, entries[2].Class)
}

func TestClassifyDominantTopSeller(t *testing.T) {
	c := New()
	settings := &domain.Settings{
		Fees: domain.FeeRates{Standard: 12, Premium: 16},
	}
	products := []domain.Product{
		{ID: 1, Name: "Dominant", ListingType: domain.ListingStandard, UnitCost: 10},
		{ID: 2, Name: "Long tail", ListingType: domain.ListingStandard, UnitCost: 10},
	}
	sales := []domain.Sale{
		{ID: 1, ProductID: 1, Quantity: 7, UnitPrice: 100},
		{ID: 2, ProductID: 2, Quantity: 1, UnitPrice: 100},
	}

	entries := c.Classify(products, sales, settings, nil)
	require.Len(t, entries, 2)

	// The top seller carries 87.5% of the profit on its own. Classification
	// looks at the cumulative including the product's own share, so it skips
	// past the 80% cutoff straight into class B.
	assert.InDelta(t, 87.5, entries[0].Cumulative, 1e-9)
	assert.Equal(t, domain.ClassB, entries[0].Class)
	assert.Equal(t, domain.ClassC, entries[1].Class)
}

func TestClassifyEmpty(t *testing.T) {
	c := New()
	settings := &domain.Settings{Fees: domain.FeeRates{Standard: 12}}

	assert.Empty(t, c.Classify(nil, nil, settings, nil))

	// Only losing products: nothing ranks.
	products := []domain.Product{{ID: 4, UnitCost: 500, ListingType: domain.ListingStandard}}
	sales := []domain.Sale{{ProductID: 4, Quantity: 1, UnitPrice: 100}}
	assert.Empty(t, c.Classify(products, sales, settings, nil))
}
