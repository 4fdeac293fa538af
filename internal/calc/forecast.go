package calc

import "github.com/lucroml/backend-go/internal/domain"

// Forecast projects next-period revenue from trailing monthly totals: the
// mean of the last 3 months (fewer if the history is shorter) with a fixed
// ±15% band. An empty history yields all zeros.
func Forecast(monthlyRevenues []float64) domain.ForecastBands {
	last := monthlyRevenues
	if len(last) > 3 {
		last = last[len(last)-3:]
	}
	if len(last) == 0 {
		return domain.ForecastBands{}
	}

	var sum float64
	for _, v := range last {
		sum += v
	}
	mean := sum / float64(len(last))

	return domain.ForecastBands{
		Pessimistic: mean * 0.85,
		Realistic:   mean,
		Optimistic:  mean * 1.15,
	}
}
