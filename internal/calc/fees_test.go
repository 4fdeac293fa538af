package calc

import (
	"testing"

	"github.com/lucroml/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFixedFeeTiers(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"half of price in lowest tier", 10.00, 5.00},
		{"just below first breakpoint", 12.49, 6.245},
		{"exactly on first breakpoint", 12.50, 6.25},
		{"middle of second tier", 20.00, 6.25},
		{"top of second tier", 29.00, 6.25},
		{"start of third tier", 29.01, 6.50},
		{"top of third tier", 50.00, 6.50},
		{"start of fourth tier", 50.01, 6.75},
		{"top of fourth tier", 78.99, 6.75},
		{"free shipping threshold", 79.00, 0},
		{"well above threshold", 129.90, 0},
		{"zero price", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FixedFee(tt.price), 1e-9)
		})
	}
}

func TestEstimatedShippingBelowThreshold(t *testing.T) {
	settings := &domain.Settings{
		ShippingEstimate: domain.ShippingEstimate{
			Mode:      domain.ShippingFlat,
			FlatValue: 40,
		},
	}

	// Below 79 the buyer pays shipping regardless of weight or table.
	assert.Zero(t, EstimatedShipping(78.99, 10, settings))
	assert.Zero(t, EstimatedShipping(10, 0.1, settings))
}

func TestEstimatedShippingFlat(t *testing.T) {
	settings := &domain.Settings{
		ShippingEstimate: domain.ShippingEstimate{
			Mode:      domain.ShippingFlat,
			FlatValue: 38.40,
		},
	}

	// Seller absorbs exactly half of the gross cost.
	assert.InDelta(t, 19.20, EstimatedShipping(79, 0.5, settings), 1e-9)
}

func TestEstimatedShippingByWeight(t *testing.T) {
	settings := &domain.Settings{
		ShippingEstimate: domain.ShippingEstimate{
			Mode: domain.ShippingByWeight,
			WeightBands: []domain.WeightBand{
				{MinKg: 0, MaxKg: 0.5, Cost: 20},
				{MinKg: 0.5, MaxKg: 2, Cost: 40},
			},
		},
	}

	assert.InDelta(t, 10, EstimatedShipping(100, 0.3, settings), 1e-9)
	// Band intervals are half-open: 0.5 belongs to the second band.
	assert.InDelta(t, 20, EstimatedShipping(100, 0.5, settings), 1e-9)
	// No matching band means no estimate.
	assert.Zero(t, EstimatedShipping(100, 5, settings))
}
