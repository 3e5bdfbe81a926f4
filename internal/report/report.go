// Package report composes the analytics functions into the dashboard and
// bonus views the UI renders, with an optional cache in front of the
// dashboard since it re-reads the full sale history on every build.
package report

import (
	"context"
	"log"
	"slices"
	"time"

	"retailmanager/internal/analytics"
	"retailmanager/internal/cache"
	"retailmanager/internal/catalog"
	"retailmanager/internal/domain"
	"retailmanager/internal/store"
)

const (
	recentSalesLimit = 5
	topProductsLimit = 5

	// DefaultDays is the trailing window of the dashboard's daily series,
	// matching the 7-day chart of the reports screen.
	DefaultDays = 7
)

type Service struct {
	collections *store.Collections
	catalog     *catalog.Manager
	reports     cache.ReportCache
	cacheTTL    time.Duration
}

func New(collections *store.Collections, catalogManager *catalog.Manager, reports cache.ReportCache, cacheTTL time.Duration) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	return &Service{
		collections: collections,
		catalog:     catalogManager,
		reports:     reports,
		cacheTTL:    cacheTTL,
	}
}

// Dashboard derives the owner's full reporting view as of now. A cached
// dashboard is served when present; cache failures degrade to a rebuild.
func (s *Service) Dashboard(ctx context.Context, owner string, now time.Time) (domain.Dashboard, error) {
	cached, ok, err := s.reports.GetDashboard(ctx, owner)
	if err != nil {
		log.Printf("[report] WARN: dashboard cache read failed owner=%s: %v", owner, err)
	} else if ok && cached != nil {
		return *cached, nil
	}

	dashboard, err := s.build(ctx, owner, now)
	if err != nil {
		return domain.Dashboard{}, err
	}

	if err := s.reports.SetDashboard(ctx, owner, &dashboard, s.cacheTTL); err != nil {
		log.Printf("[report] WARN: dashboard cache write failed owner=%s: %v", owner, err)
	}
	return dashboard, nil
}

func (s *Service) build(ctx context.Context, owner string, now time.Time) (domain.Dashboard, error) {
	sales, err := s.collections.LoadSales(ctx, owner)
	if err != nil {
		return domain.Dashboard{}, err
	}

	stats, err := s.catalog.ProductStats(ctx, owner)
	if err != nil {
		return domain.Dashboard{}, err
	}

	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	todayCount := 0
	for _, sale := range sales {
		at := sale.CreatedAt.In(loc)
		if !at.Before(dayStart) && at.Before(dayEnd) {
			todayCount++
		}
	}

	return domain.Dashboard{
		Owner:        owner,
		TodayTotal:   analytics.RevenueInWindow(sales, dayStart, dayEnd),
		TodayCount:   todayCount,
		RecentSales:  analytics.RecentSales(sales, recentSalesLimit),
		Daily:        analytics.DailySeries(sales, DefaultDays, now),
		TopProducts:  analytics.TopProducts(sales, topProductsLimit),
		PerEmployee:  sortedEmployeeTotals(analytics.PerEmployeeTotals(sales)),
		ProductStats: stats,
		GeneratedAt:  now.UTC(),
	}, nil
}

// BonusReport is rebuilt on every call: it depends on current employee
// configuration, which changes independently of the sale history.
func (s *Service) BonusReport(ctx context.Context, owner string) ([]domain.BonusRow, error) {
	sales, err := s.collections.LoadSales(ctx, owner)
	if err != nil {
		return nil, err
	}
	employees, err := s.catalog.ListEmployees(ctx, owner)
	if err != nil {
		return nil, err
	}

	return analytics.BonusReport(employees, analytics.PerEmployeeTotals(sales)), nil
}

func sortedEmployeeTotals(totals map[string]domain.EmployeeTotals) []domain.EmployeeTotals {
	result := make([]domain.EmployeeTotals, 0, len(totals))
	for _, entry := range totals {
		result = append(result, entry)
	}
	slices.SortFunc(result, func(a, b domain.EmployeeTotals) int {
		if c := b.TotalSold.Cmp(a.TotalSold); c != 0 {
			return c
		}
		return cmpString(a.EmployeeID, b.EmployeeID)
	})
	return result
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
