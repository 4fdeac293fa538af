package domain

import "time"

// Period is a closed date interval used to slice the sales history.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the period length in whole days, at least 1.
func (p Period) Days() int {
	days := int(p.To.Sub(p.From).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Previous returns the immediately preceding period of the same length.
func (p Period) Previous() Period {
	days := p.Days()
	return Period{
		From: p.From.AddDate(0, 0, -days),
		To:   p.From.AddDate(0, 0, -1),
	}
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && !t.After(p.To)
}

// Metric is one dashboard card: current value plus the percent change against
// the previous period of the same length.
type Metric struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

// DashboardSummary aggregates the headline numbers of the dashboard page.
type DashboardSummary struct {
	Revenue       Metric  `json:"revenue"`
	TotalCost     Metric  `json:"total_cost"`
	NetProfit     Metric  `json:"net_profit"`
	MarginPercent Metric  `json:"margin_percent"`
	SaleCount     Metric  `json:"sale_count"`
	AverageTicket float64 `json:"average_ticket"`
	ROIPercent    float64 `json:"roi_percent"`
	ReturnRate    float64 `json:"return_rate"`
	GoalProgress  float64 `json:"goal_progress"`
}

// MonthlyPoint is one month of the revenue/cost/profit series.
type MonthlyPoint struct {
	Month         string  `json:"month"` // YYYY-MM
	Revenue       float64 `json:"revenue"`
	TotalCost     float64 `json:"total_cost"`
	NetProfit     float64 `json:"net_profit"`
	MarginPercent float64 `json:"margin_percent"`
}

// CostSlice is one wedge of the cost-distribution chart.
type CostSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// WeekdaySales is units sold per weekday (0 = Sunday).
type WeekdaySales struct {
	Weekday  int    `json:"weekday"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
