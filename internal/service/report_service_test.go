package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lucroml/backend-go/internal/calc"
	"github.com/lucroml/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	products  *fakeProductRepo
	sales     *fakeSaleRepo
	campaigns *fakeCampaignRepo
	settings  *SettingsService
	service   *ReportService
	storage   *fakeStorage
}

func newReportFixture() *reportFixture {
	products := newFakeProductRepo()
	sales := newFakeSaleRepo()
	campaigns := newFakeCampaignRepo()
	settings := NewSettingsService(&fakeSettingsRepo{}, nil)
	store := newFakeStorage()
	return &reportFixture{
		products:  products,
		sales:     sales,
		campaigns: campaigns,
		settings:  settings,
		service:   NewReportService(products, sales, campaigns, settings, calc.New(), nil, store),
		storage:   store,
	}
}

// simpleProduct sells at 100 with a 12% standard fee and no other charges
// except a unit cost of 10, so each sale nets exactly 78.
func (f *reportFixture) simpleProduct(t *testing.T) *domain.Product {
	t.Helper()
	p := &domain.Product{
		SKU:         "TEST-01",
		Name:        "Produto Teste",
		ListPrice:   100,
		UnitCost:    10,
		ListingType: domain.ListingStandard,
		Status:      domain.ProductActive,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *reportFixture) addSale(t *testing.T, productID int64, date time.Time, unitPrice float64) {
	t.Helper()
	require.NoError(t, f.sales.Create(context.Background(), &domain.Sale{
		Date:      date,
		ProductID: productID,
		Quantity:  1,
		UnitPrice: unitPrice,
	}))
}

func TestReportSummary(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	period := domain.Period{
		From: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}
	// Two sales in the period, one in the preceding window.
	f.addSale(t, p.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, p.ID, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, p.ID, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), 100)

	summary, err := f.service.Summary(context.Background(), period)
	require.NoError(t, err)

	assert.InDelta(t, 200, summary.Revenue.Value, 1e-9)
	assert.InDelta(t, 100, summary.Revenue.Change, 1e-9)
	assert.InDelta(t, 44, summary.TotalCost.Value, 1e-9)
	assert.InDelta(t, 156, summary.NetProfit.Value, 1e-9)
	assert.InDelta(t, 78, summary.MarginPercent.Value, 1e-9)
	// Same margin both periods, so the change is in points and zero.
	assert.InDelta(t, 0, summary.MarginPercent.Change, 1e-9)
	assert.InDelta(t, 2, summary.SaleCount.Value, 1e-9)
	assert.InDelta(t, 100, summary.AverageTicket, 1e-9)
	assert.InDelta(t, 156.0/44.0*100, summary.ROIPercent, 1e-9)
	assert.Zero(t, summary.ReturnRate)
	// 200 of the default 10000 monthly goal.
	assert.InDelta(t, 2, summary.GoalProgress, 1e-9)
}

func TestReportSummarySkipsOrphanSales(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	period := domain.Period{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	f.addSale(t, p.ID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 100)
	// References a product that was deleted; must not abort the report.
	f.addSale(t, p.ID+99, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), 500)

	summary, err := f.service.Summary(context.Background(), period)
	require.NoError(t, err)
	assert.InDelta(t, 100, summary.Revenue.Value, 1e-9)
	assert.InDelta(t, 1, summary.SaleCount.Value, 1e-9)
}

func TestReportCostBreakdown(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	period := domain.Period{
		From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	f.addSale(t, p.ID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, p.ID, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), 100)

	slices, err := f.service.CostBreakdown(context.Background(), period)
	require.NoError(t, err)

	// Only product cost and marketplace fees are non-zero for this fixture.
	require.Len(t, slices, 2)
	assert.Equal(t, "Custo Produto", slices[0].Name)
	assert.InDelta(t, 20, slices[0].Value, 1e-9)
	assert.Equal(t, "Taxas ML", slices[1].Name)
	assert.InDelta(t, 24, slices[1].Value, 1e-9)
}

func TestReportWeekdays(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	period := domain.Period{From: date.AddDate(0, 0, -7), To: date}
	f.addSale(t, p.ID, date, 100)
	f.addSale(t, p.ID, date, 100)

	weekdays, err := f.service.Weekdays(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, weekdays, 7)

	assert.Equal(t, "Dom", weekdays[0].Name)
	for _, wd := range weekdays {
		if wd.Weekday == int(date.Weekday()) {
			assert.Equal(t, 2, wd.Quantity)
		} else {
			assert.Zero(t, wd.Quantity)
		}
	}
}

func TestReportMonthly(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)
	f.addSale(t, p.ID, time.Now().UTC(), 100)

	points, err := f.service.Monthly(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	last := points[2]
	assert.Equal(t, time.Now().UTC().Format("2006-01"), last.Month)
	assert.InDelta(t, 100, last.Revenue, 1e-9)
	assert.InDelta(t, 78, last.NetProfit, 1e-9)
	assert.InDelta(t, 78, last.MarginPercent, 1e-9)
	assert.Zero(t, points[0].Revenue)
	assert.Zero(t, points[1].Revenue)
}

func TestReportABC(t *testing.T) {
	f := newReportFixture()
	winner := f.simpleProduct(t)

	loser := &domain.Product{
		SKU:         "TEST-02",
		Name:        "Produto Deficitário",
		ListPrice:   20,
		UnitCost:    50,
		ListingType: domain.ListingStandard,
		Status:      domain.ProductActive,
	}
	runnerUp := &domain.Product{
		SKU:         "TEST-03",
		Name:        "Produto Coadjuvante",
		ListPrice:   100,
		UnitCost:    10,
		ListingType: domain.ListingStandard,
		Status:      domain.ProductActive,
	}
	require.NoError(t, f.products.Create(context.Background(), loser))
	require.NoError(t, f.products.Create(context.Background(), runnerUp))

	// Three sales of 78 profit against one puts the winner at a 75% share.
	f.addSale(t, winner.ID, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, winner.ID, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, winner.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, runnerUp.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 100)
	f.addSale(t, loser.ID, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), 20)

	entries, err := f.service.ABC(context.Background())
	require.NoError(t, err)

	// Loss makers are excluded from the ranking; the runner-up closes the
	// cumulative at 100% and lands in class C.
	require.Len(t, entries, 2)
	assert.Equal(t, winner.ID, entries[0].Product.ID)
	assert.Equal(t, domain.ClassA, entries[0].Class)
	assert.InDelta(t, 75, entries[0].Percent, 1e-9)
	assert.Equal(t, runnerUp.ID, entries[1].Product.ID)
	assert.Equal(t, domain.ClassC, entries[1].Class)
}

func TestReportForecast(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)
	f.addSale(t, p.ID, time.Now().UTC(), 100)

	bands, err := f.service.Forecast(context.Background())
	require.NoError(t, err)

	// Mean of the trailing three months: (0 + 0 + 100) / 3.
	mean := 100.0 / 3
	assert.InDelta(t, mean, bands.Realistic, 1e-9)
	assert.InDelta(t, mean*0.85, bands.Pessimistic, 1e-9)
	assert.InDelta(t, mean*1.15, bands.Optimistic, 1e-9)
}

func TestReportExportCSV(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	period := domain.Period{
		From: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}
	f.addSale(t, p.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 100)

	key, err := f.service.ExportCSV(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, "reports/lucro-20260311-20260320.csv", key)

	data, ok := f.storage.objects[key]
	require.True(t, ok)

	content := string(data)
	assert.True(t, strings.HasPrefix(content, "\uFEFF"), "export should start with a BOM")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "receita_bruta")
	assert.Contains(t, lines[1], "Produto Teste")
	assert.Contains(t, lines[1], "78.00")
}

func TestReportListExports(t *testing.T) {
	f := newReportFixture()
	p := f.simpleProduct(t)

	period := domain.Period{
		From: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
	}
	f.addSale(t, p.ID, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 100)

	key, err := f.service.ExportCSV(context.Background(), period)
	require.NoError(t, err)

	exports, err := f.service.ListExports(context.Background())
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, key, exports[0].Key)
	assert.Positive(t, exports[0].Size)
}

func TestReportExportDisabledWithoutStorage(t *testing.T) {
	f := newReportFixture()
	service := NewReportService(f.products, f.sales, f.campaigns, f.settings, calc.New(), nil, nil)

	_, err := service.ExportCSV(context.Background(), domain.Period{From: time.Now(), To: time.Now()})
	assert.ErrorIs(t, err, ErrExportDisabled)
}
