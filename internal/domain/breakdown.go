package domain

// ProfitBreakdown is the computed cost/profit decomposition of one sale event
// or one theoretical catalog unit. It is never persisted; callers recompute it
// on demand.
type ProfitBreakdown struct {
	GrossRevenue    float64 `json:"gross_revenue"`
	PercentFee      float64 `json:"percent_fee"`
	FixedFee        float64 `json:"fixed_fee"`
	FulfillmentFee  float64 `json:"fulfillment_fee"`
	TotalMarketFees float64 `json:"total_market_fees"`
	Tax             float64 `json:"tax"`
	ProductCost     float64 `json:"product_cost"`
	FixedCosts      float64 `json:"fixed_costs"`
	ShippingCost    float64 `json:"shipping_cost"`
	ReturnCost      float64 `json:"return_cost"`
	AdCost          float64 `json:"ad_cost"`
	TotalCost       float64 `json:"total_cost"`
	NetProfit       float64 `json:"net_profit"`
	MarginPercent   float64 `json:"margin_percent"`
}

// ABC classification classes.
const (
	ClassA = "A"
	ClassB = "B"
	ClassC = "C"
)

// ABCEntry is one row of the Pareto ranking: a product, its summed net profit
// over the sales history, its share of total positive profit and the running
// cumulative share.
type ABCEntry struct {
	Product     Product `json:"product"`
	TotalProfit float64 `json:"total_profit"`
	Percent     float64 `json:"percent"`
	Cumulative  float64 `json:"cumulative"`
	Class       string  `json:"class"`
}

// ForecastBands is the next-period revenue projection: a 3-month moving
// average with a fixed ±15% band.
type ForecastBands struct {
	Pessimistic float64 `json:"pessimistic"`
	Realistic   float64 `json:"realistic"`
	Optimistic  float64 `json:"optimistic"`
}
