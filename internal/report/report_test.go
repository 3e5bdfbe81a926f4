package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"retailmanager/internal/cache"
	"retailmanager/internal/catalog"
	"retailmanager/internal/domain"
	"retailmanager/internal/sales"
	"retailmanager/internal/storage/memory"
	"retailmanager/internal/store"
)

const owner = "owner-1"

type fixture struct {
	collections *store.Collections
	catalog     *catalog.Manager
	processor   *sales.Processor
	service     *Service
}

func newFixture(reports cache.ReportCache) *fixture {
	collections := store.New(memory.New(), "")
	catalogManager := catalog.New(collections)
	return &fixture{
		collections: collections,
		catalog:     catalogManager,
		processor:   sales.New(collections, reports),
		service:     New(collections, catalogManager, reports, time.Minute),
	}
}

func (f *fixture) seed(t *testing.T) (domain.Product, domain.Employee) {
	t.Helper()
	ctx := context.Background()

	product, err := f.catalog.CreateProduct(ctx, owner, domain.ProductCreateRequest{
		Name:          "Beans",
		UnitPrice:     decimal.NewFromInt(10),
		StockQuantity: 100,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	employee, err := f.catalog.CreateEmployee(ctx, owner, domain.EmployeeCreateRequest{
		Name:         "Alex",
		BaseSalary:   decimal.NewFromInt(1000),
		SalesGoal:    decimal.NewFromInt(100),
		BonusPercent: 5,
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return product, employee
}

func TestDashboardBuild(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	product, employee := f.seed(t)

	for i := 0; i < 3; i++ {
		if _, err := f.processor.Process(ctx, owner, employee.ID, []domain.SaleLineRequest{
			{ProductID: product.ID, Quantity: 2},
		}); err != nil {
			t.Fatalf("sale %d failed: %v", i+1, err)
		}
	}

	now := time.Now()
	dashboard, err := f.service.Dashboard(ctx, owner, now)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	if dashboard.Owner != owner {
		t.Fatalf("expected owner %s, got %s", owner, dashboard.Owner)
	}
	if !dashboard.TodayTotal.Equal(decimal.NewFromInt(60)) || dashboard.TodayCount != 3 {
		t.Fatalf("expected today total 60 count 3, got %s count %d", dashboard.TodayTotal, dashboard.TodayCount)
	}
	if len(dashboard.RecentSales) != 3 {
		t.Fatalf("expected 3 recent sales, got %d", len(dashboard.RecentSales))
	}
	if len(dashboard.Daily) != DefaultDays {
		t.Fatalf("expected %d daily points, got %d", DefaultDays, len(dashboard.Daily))
	}
	today := dashboard.Daily[len(dashboard.Daily)-1]
	if today.Count != 3 || !today.Total.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unexpected today bucket: %+v", today)
	}
	if len(dashboard.TopProducts) != 1 || dashboard.TopProducts[0].ProductID != product.ID {
		t.Fatalf("unexpected top products: %+v", dashboard.TopProducts)
	}
	if len(dashboard.PerEmployee) != 1 || dashboard.PerEmployee[0].EmployeeID != employee.ID {
		t.Fatalf("unexpected per-employee totals: %+v", dashboard.PerEmployee)
	}
	if dashboard.ProductStats.TotalProducts != 1 {
		t.Fatalf("expected stats for 1 product, got %+v", dashboard.ProductStats)
	}
}

func TestDashboardPerEmployeeOrdering(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	product, first := f.seed(t)

	second, err := f.catalog.CreateEmployee(ctx, owner, domain.EmployeeCreateRequest{
		Name:       "Brook",
		BaseSalary: decimal.NewFromInt(1000),
		SalesGoal:  decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	// Brook sells more than Alex.
	if _, err := f.processor.Process(ctx, owner, first.ID, []domain.SaleLineRequest{
		{ProductID: product.ID, Quantity: 1},
	}); err != nil {
		t.Fatalf("first sale: %v", err)
	}
	if _, err := f.processor.Process(ctx, owner, second.ID, []domain.SaleLineRequest{
		{ProductID: product.ID, Quantity: 5},
	}); err != nil {
		t.Fatalf("second sale: %v", err)
	}

	dashboard, err := f.service.Dashboard(ctx, owner, time.Now())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if len(dashboard.PerEmployee) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dashboard.PerEmployee))
	}
	if dashboard.PerEmployee[0].EmployeeID != second.ID {
		t.Fatalf("expected top seller first, got %+v", dashboard.PerEmployee)
	}
}

func TestDashboardEmptyOwner(t *testing.T) {
	f := newFixture(nil)

	dashboard, err := f.service.Dashboard(context.Background(), owner, time.Now())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if !dashboard.TodayTotal.IsZero() || dashboard.TodayCount != 0 {
		t.Fatalf("expected zero today figures, got %+v", dashboard)
	}
	if len(dashboard.RecentSales) != 0 || len(dashboard.TopProducts) != 0 {
		t.Fatalf("expected empty listings, got %+v", dashboard)
	}
	if len(dashboard.Daily) != DefaultDays {
		t.Fatalf("expected zero-filled daily series, got %d points", len(dashboard.Daily))
	}
}

type stubCache struct {
	stored  map[string]*domain.Dashboard
	getErr  error
	setErr  error
	getHits int
	setHits int
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string]*domain.Dashboard)}
}

func (c *stubCache) GetDashboard(_ context.Context, owner string) (*domain.Dashboard, bool, error) {
	c.getHits++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	d, ok := c.stored[owner]
	return d, ok, nil
}

func (c *stubCache) SetDashboard(_ context.Context, owner string, d *domain.Dashboard, _ time.Duration) error {
	c.setHits++
	if c.setErr != nil {
		return c.setErr
	}
	c.stored[owner] = d
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, owner string) error {
	delete(c.stored, owner)
	return nil
}

func TestDashboardServedFromCache(t *testing.T) {
	reports := newStubCache()
	f := newFixture(reports)
	ctx := context.Background()
	f.seed(t)

	first, err := f.service.Dashboard(ctx, owner, time.Now())
	if err != nil {
		t.Fatalf("first dashboard: %v", err)
	}
	if reports.setHits != 1 {
		t.Fatalf("expected one cache write, got %d", reports.setHits)
	}

	// Seed a marker so a cache hit is distinguishable from a rebuild.
	reports.stored[owner].TodayCount = 42

	second, err := f.service.Dashboard(ctx, owner, time.Now())
	if err != nil {
		t.Fatalf("second dashboard: %v", err)
	}
	if second.TodayCount != 42 {
		t.Fatalf("expected cached dashboard, got count %d", second.TodayCount)
	}
	if second.Owner != first.Owner {
		t.Fatalf("expected same owner, got %s", second.Owner)
	}
}

func TestDashboardDegradesOnCacheFailure(t *testing.T) {
	reports := newStubCache()
	reports.getErr = errors.New("cache down")
	reports.setErr = errors.New("cache down")
	f := newFixture(reports)
	ctx := context.Background()
	product, employee := f.seed(t)

	if _, err := f.processor.Process(ctx, owner, employee.ID, []domain.SaleLineRequest{
		{ProductID: product.ID, Quantity: 1},
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	dashboard, err := f.service.Dashboard(ctx, owner, time.Now())
	if err != nil {
		t.Fatalf("expected rebuild despite cache failure, got %v", err)
	}
	if dashboard.TodayCount != 1 {
		t.Fatalf("expected fresh dashboard, got count %d", dashboard.TodayCount)
	}
}

func TestBonusReportReflectsCurrentEmployees(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	product, employee := f.seed(t)

	if _, err := f.processor.Process(ctx, owner, employee.ID, []domain.SaleLineRequest{
		{ProductID: product.ID, Quantity: 10},
	}); err != nil {
		t.Fatalf("sale failed: %v", err)
	}

	rows, err := f.service.BonusReport(ctx, owner)
	if err != nil {
		t.Fatalf("bonus report failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].GoalReached {
		t.Fatalf("expected goal reached with sold 100 vs goal 100, got %+v", rows[0])
	}
	if !rows[0].BonusEarned.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected bonus 50, got %s", rows[0].BonusEarned)
	}

	// Raising the goal after the fact changes the verdict on the next call.
	goal := decimal.NewFromInt(500)
	if _, err := f.catalog.UpdateEmployee(ctx, owner, employee.ID, domain.EmployeePatch{SalesGoal: &goal}); err != nil {
		t.Fatalf("update employee: %v", err)
	}

	rows, err = f.service.BonusReport(ctx, owner)
	if err != nil {
		t.Fatalf("second bonus report failed: %v", err)
	}
	if rows[0].GoalReached {
		t.Fatalf("expected goal no longer reached, got %+v", rows[0])
	}
	if !rows[0].TotalPay.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected base pay only, got %s", rows[0].TotalPay)
	}
}
