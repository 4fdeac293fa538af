package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/lucroml/backend-go/internal/cache"
	"github.com/lucroml/backend-go/internal/calc"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/lucroml/backend-go/internal/repository"
	"github.com/lucroml/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// ErrExportDisabled is returned when no object storage is configured.
var ErrExportDisabled = errors.New("report export is not configured")

var weekdayNames = []string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

type ReportService struct {
	products   repository.ProductRepository
	sales      repository.SaleRepository
	campaigns  repository.CampaignRepository
	settings   *SettingsService
	calculator *calc.Calculator
	cache      cache.ReportCache
	storage    storage.ObjectStorage
}

func NewReportService(
	products repository.ProductRepository,
	sales repository.SaleRepository,
	campaigns repository.CampaignRepository,
	settings *SettingsService,
	calculator *calc.Calculator,
	cacheImpl cache.ReportCache,
	store storage.ObjectStorage,
) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &ReportService{
		products:   products,
		sales:      sales,
		campaigns:  campaigns,
		settings:   settings,
		calculator: calculator,
		cache:      cacheImpl,
		storage:    store,
	}
}

// reportInputs is one immutable snapshot of everything the engine reads.
type reportInputs struct {
	products  map[int64]domain.Product
	sales     []domain.Sale
	campaigns []domain.Campaign
	settings  *domain.Settings
}

func (s *ReportService) load(ctx context.Context) (*reportInputs, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.sales.List(ctx)
	if err != nil {
		return nil, err
	}
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &reportInputs{
		products:  byID,
		sales:     sales,
		campaigns: campaigns,
		settings:  settings,
	}, nil
}

// periodTotals aggregates breakdowns over a slice of the sales history.
// Sales whose product no longer resolves are skipped, never computed.
type periodTotals struct {
	revenue   float64
	totalCost float64
	count     int
	returns   int
}

func (t periodTotals) profit() float64 { return t.revenue - t.totalCost }

func (t periodTotals) margin() float64 {
	if t.revenue <= 0 {
		return 0
	}
	return t.profit() / t.revenue * 100
}

func (s *ReportService) totalsFor(in *reportInputs, period domain.Period) periodTotals {
	var totals periodTotals
	for i := range in.sales {
		sale := &in.sales[i]
		if !period.Contains(sale.Date) {
			continue
		}
		product, ok := in.products[sale.ProductID]
		if !ok {
			continue
		}
		b := s.calculator.ForSale(sale, &product, in.settings, in.campaigns)
		totals.revenue += b.GrossRevenue
		totals.totalCost += b.TotalCost
		totals.count++
		if sale.Returned {
			totals.returns++
		}
	}
	return totals
}

// Summary builds the dashboard headline metrics for a period, comparing
// against the preceding period of the same length.
func (s *ReportService) Summary(ctx context.Context, period domain.Period) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, period); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("reports: cache get summary failed")
	}

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	current := s.totalsFor(in, period)
	previous := s.totalsFor(in, period.Previous())

	pctChange := func(cur, prev float64) float64 {
		if prev <= 0 {
			return 0
		}
		return (cur - prev) / prev * 100
	}

	var ticket float64
	if current.count > 0 {
		ticket = current.revenue / float64(current.count)
	}
	var roi float64
	if current.totalCost > 0 {
		roi = current.profit() / current.totalCost * 100
	}
	var returnRate float64
	if current.count > 0 {
		returnRate = float64(current.returns) / float64(current.count) * 100
	}
	var goalProgress float64
	if in.settings.MonthlyRevenueGoal > 0 {
		goalProgress = current.revenue / in.settings.MonthlyRevenueGoal * 100
	}

	summary := &domain.DashboardSummary{
		Revenue:       domain.Metric{Value: current.revenue, Change: pctChange(current.revenue, previous.revenue)},
		TotalCost:     domain.Metric{Value: current.totalCost, Change: pctChange(current.totalCost, previous.totalCost)},
		NetProfit:     domain.Metric{Value: current.profit(), Change: pctChange(current.profit(), previous.profit())},
		MarginPercent: domain.Metric{Value: current.margin(), Change: current.margin() - previous.margin()},
		SaleCount:     domain.Metric{Value: float64(current.count), Change: pctChange(float64(current.count), float64(previous.count))},
		AverageTicket: ticket,
		ROIPercent:    roi,
		ReturnRate:    returnRate,
		GoalProgress:  goalProgress,
	}

	if err := s.cache.SetSummary(ctx, period, summary); err != nil {
		log.Warn().Err(err).Msg("reports: cache set summary failed")
	}
	return summary, nil
}

// Monthly builds the trailing revenue/cost/profit series, one point per
// calendar month, oldest first.
func (s *ReportService) Monthly(ctx context.Context, months int) ([]domain.MonthlyPoint, error) {
	if months <= 0 {
		months = 12
	}
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	points := make([]domain.MonthlyPoint, 0, months)
	index := make(map[string]int, months)
	for i := months - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := m.Format("2006-01")
		index[key] = len(points)
		points = append(points, domain.MonthlyPoint{Month: key})
	}

	for i := range in.sales {
		sale := &in.sales[i]
		idx, ok := index[sale.Date.Format("2006-01")]
		if !ok {
			continue
		}
		product, ok := in.products[sale.ProductID]
		if !ok {
			continue
		}
		b := s.calculator.ForSale(sale, &product, in.settings, in.campaigns)
		points[idx].Revenue += b.GrossRevenue
		points[idx].TotalCost += b.TotalCost
	}

	for i := range points {
		points[i].NetProfit = points[i].Revenue - points[i].TotalCost
		if points[i].Revenue > 0 {
			points[i].MarginPercent = points[i].NetProfit / points[i].Revenue * 100
		}
	}
	return points, nil
}

// CostBreakdown decomposes the period's total cost into its components,
// dropping empty slices.
func (s *ReportService) CostBreakdown(ctx context.Context, period domain.Period) ([]domain.CostSlice, error) {
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var product, fees, shipping, tax, ads, returns float64
	for i := range in.sales {
		sale := &in.sales[i]
		if !period.Contains(sale.Date) {
			continue
		}
		p, ok := in.products[sale.ProductID]
		if !ok {
			continue
		}
		b := s.calculator.ForSale(sale, &p, in.settings, in.campaigns)
		product += b.ProductCost
		fees += b.TotalMarketFees
		shipping += b.ShippingCost
		tax += b.Tax
		ads += b.AdCost
		returns += b.ReturnCost
	}

	all := []domain.CostSlice{
		{Name: "Custo Produto", Value: product},
		{Name: "Taxas ML", Value: fees},
		{Name: "Frete", Value: shipping},
		{Name: "Impostos", Value: tax},
		{Name: "Ads", Value: ads},
		{Name: "Devoluções", Value: returns},
	}
	slices := make([]domain.CostSlice, 0, len(all))
	for _, slice := range all {
		if slice.Value > 0 {
			slices = append(slices, slice)
		}
	}
	return slices, nil
}

// Weekdays counts units sold per weekday over the period.
func (s *ReportService) Weekdays(ctx context.Context, period domain.Period) ([]domain.WeekdaySales, error) {
	sales, err := s.sales.ListBetween(ctx, period.From, period.To)
	if err != nil {
		return nil, err
	}

	result := make([]domain.WeekdaySales, 7)
	for i := range result {
		result[i] = domain.WeekdaySales{Weekday: i, Name: weekdayNames[i]}
	}
	for _, sale := range sales {
		result[int(sale.Date.Weekday())].Quantity += sale.Quantity
	}
	return result, nil
}

// ABC ranks the whole catalog by accumulated profit over the full history.
func (s *ReportService) ABC(ctx context.Context) ([]domain.ABCEntry, error) {
	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(in.products))
	for _, p := range in.products {
		products = append(products, p)
	}
	// Map iteration order is random; fix it so ties rank deterministically.
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return s.calculator.Classify(products, in.sales, in.settings, in.campaigns), nil
}

// Forecast projects next-month revenue from the monthly history.
func (s *ReportService) Forecast(ctx context.Context) (domain.ForecastBands, error) {
	points, err := s.Monthly(ctx, 12)
	if err != nil {
		return domain.ForecastBands{}, err
	}

	revenues := make([]float64, 0, len(points))
	for _, p := range points {
		revenues = append(revenues, p.Revenue)
	}
	return calc.Forecast(revenues), nil
}

// ExportCSV renders the period's per-sale breakdown as CSV and uploads it to
// object storage, returning the stored key.
func (s *ReportService) ExportCSV(ctx context.Context, period domain.Period) (string, error) {
	if s.storage == nil {
		return "", ErrExportDisabled
	}

	in, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	// BOM so spreadsheet apps pick up the UTF-8 accents.
	buf.WriteString("\uFEFF")
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	header := []string{
		"data", "produto", "sku", "quantidade", "receita_bruta",
		"taxas_ml", "imposto", "frete", "ads", "devolucao",
		"custo_total", "lucro_liquido", "margem_percent",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range in.sales {
		sale := &in.sales[i]
		if !period.Contains(sale.Date) {
			continue
		}
		product, ok := in.products[sale.ProductID]
		if !ok {
			continue
		}
		b := s.calculator.ForSale(sale, &product, in.settings, in.campaigns)
		row := []string{
			sale.Date.Format("2006-01-02"),
			product.Name,
			product.SKU,
			strconv.Itoa(sale.Quantity),
			money(b.GrossRevenue),
			money(b.TotalMarketFees),
			money(b.Tax),
			money(b.ShippingCost),
			money(b.AdCost),
			money(b.ReturnCost),
			money(b.TotalCost),
			money(b.NetProfit),
			money(b.MarginPercent),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	key := fmt.Sprintf("reports/lucro-%s-%s.csv",
		period.From.Format("20060102"), period.To.Format("20060102"))
	if err := s.storage.UploadObject(ctx, key, "text/csv; charset=utf-8", buf.Bytes()); err != nil {
		return "", err
	}

	log.Info().Str("key", key).Msg("report exported")
	return key, nil
}

// ListExports returns previously exported report files, newest key last.
func (s *ReportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return nil, ErrExportDisabled
	}
	return s.storage.ListObjects(ctx, "reports/")
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
