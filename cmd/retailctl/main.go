// retailctl is the operational/debug tool for a retailmanager store: it can
// purge the namespace, seed demo data, and dump the derived reports. None
// of these surfaces are reachable from the application flow.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"retailmanager/internal/cache"
	"retailmanager/internal/catalog"
	"retailmanager/internal/config"
	"retailmanager/internal/domain"
	"retailmanager/internal/report"
	"retailmanager/internal/sales"
	"retailmanager/internal/storage"
	"retailmanager/internal/storage/memory"
	pgstorage "retailmanager/internal/storage/postgres"
	redisstorage "retailmanager/internal/storage/redis"
	"retailmanager/internal/store"
)

func main() {
	purge := flag.Bool("purge", false, "remove every key under the storage namespace")
	seed := flag.String("seed", "", "owner id to seed with demo catalog data and one sale")
	dashboard := flag.String("dashboard", "", "owner id to print the dashboard for")
	bonus := flag.String("bonus", "", "owner id to print the bonus report for")
	flag.Parse()

	if !*purge && *seed == "" && *dashboard == "" && *bonus == "" {
		flag.Usage()
		return
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var kv storage.KeyValue
	closers := make([]func() error, 0, 2)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstorage.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to fall back", err)
		}
		kv = pg
		closers = append(closers, pg.Close)
		log.Println("storage: postgres")
	case cfg.RedisAddr != "":
		rd := redisstorage.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rd.Ping(ctx); err != nil {
			log.Fatalf("redis unavailable (%v) and REDIS_ADDR is set; refusing to fall back", err)
		}
		kv = rd
		closers = append(closers, rd.Close)
		log.Println("storage: redis")
	default:
		kv = memory.New()
		log.Println("storage: in-memory (state is discarded on exit)")
	}
	defer func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Printf("close error: %v", err)
			}
		}
	}()

	reportCache := cache.ReportCache(cache.NoopReportCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("report cache: redis unavailable (%v), using noop", err)
		} else {
			reportCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("report cache: redis")
		}
	}

	collections := store.New(kv, cfg.Namespace)
	catalogManager := catalog.New(collections)
	processor := sales.New(collections, reportCache)
	reporter := report.New(collections, catalogManager, reportCache, time.Duration(cfg.ReportCacheTTLSeconds)*time.Second)

	if *purge {
		removed, err := collections.PurgeAll(ctx)
		if err != nil {
			log.Fatalf("purge failed: %v", err)
		}
		log.Printf("purged %d keys under %s", removed, cfg.Namespace)
	}

	if *seed != "" {
		if err := seedOwner(ctx, *seed, catalogManager, processor); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		log.Printf("seeded demo data for owner %s", *seed)
	}

	if *dashboard != "" {
		d, err := reporter.Dashboard(ctx, *dashboard, time.Now())
		if err != nil {
			log.Fatalf("dashboard failed: %v", err)
		}
		printDashboard(d)
	}

	if *bonus != "" {
		rows, err := reporter.BonusReport(ctx, *bonus)
		if err != nil {
			log.Fatalf("bonus report failed: %v", err)
		}
		printBonusReport(rows)
	}
}

func seedOwner(ctx context.Context, owner string, catalogManager *catalog.Manager, processor *sales.Processor) error {
	seedProducts := []domain.ProductCreateRequest{
		{Name: "Espresso Beans 1kg", UnitPrice: decimal.NewFromFloat(24.90), StockQuantity: 40},
		{Name: "Ceramic Mug", UnitPrice: decimal.NewFromFloat(12.50), StockQuantity: 25},
		{Name: "Pour-Over Kettle", UnitPrice: decimal.NewFromFloat(54.00), StockQuantity: 8},
		{Name: "Filter Pack (100)", UnitPrice: decimal.NewFromFloat(6.75), StockQuantity: 120},
	}

	productIDs := make([]string, 0, len(seedProducts))
	for _, req := range seedProducts {
		product, err := catalogManager.CreateProduct(ctx, owner, req)
		if err != nil {
			return err
		}
		productIDs = append(productIDs, product.ID)
	}

	employee, err := catalogManager.CreateEmployee(ctx, owner, domain.EmployeeCreateRequest{
		Name:         "Alex Demo",
		BaseSalary:   decimal.NewFromInt(2400),
		SalesGoal:    decimal.NewFromInt(500),
		BonusPercent: 5,
	})
	if err != nil {
		return err
	}

	_, err = processor.Process(ctx, owner, employee.ID, []domain.SaleLineRequest{
		{ProductID: productIDs[0], Quantity: 2},
		{ProductID: productIDs[1], Quantity: 1},
	})
	return err
}

func printDashboard(d domain.Dashboard) {
	fmt.Printf("dashboard for %s (generated %s)\n", d.Owner, d.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("  today: %s across %d sales\n", d.TodayTotal.StringFixed(2), d.TodayCount)
	fmt.Printf("  catalog: %d products, value %s, %d low on stock\n",
		d.ProductStats.TotalProducts, d.ProductStats.TotalValue.StringFixed(2), d.ProductStats.LowStockCount)

	fmt.Println("  daily series:")
	for _, point := range d.Daily {
		fmt.Printf("    %s  %10s  (%d sales)\n", point.Date, point.Total.StringFixed(2), point.Count)
	}

	if len(d.TopProducts) > 0 {
		fmt.Println("  top products:")
		for _, ranking := range d.TopProducts {
			fmt.Printf("    %-30s qty=%-4d revenue=%s\n", ranking.Name, ranking.QuantitySold, ranking.RevenueSold.StringFixed(2))
		}
	}

	if len(d.PerEmployee) > 0 {
		fmt.Println("  per employee:")
		for _, totals := range d.PerEmployee {
			fmt.Printf("    %-30s sold=%s in %d sales\n", totals.EmployeeName, totals.TotalSold.StringFixed(2), totals.SaleCount)
		}
	}
}

func printBonusReport(rows []domain.BonusRow) {
	fmt.Println("bonus report:")
	for _, row := range rows {
		status := "goal not reached"
		if row.GoalReached {
			status = "goal reached"
		}
		fmt.Printf("  %-30s sold=%s goal=%s (%.1f%%) %s bonus=%s pay=%s\n",
			row.Employee.Name, row.Sold.StringFixed(2), row.Goal.StringFixed(2),
			row.PercentOfGoal, status, row.BonusEarned.StringFixed(2), row.TotalPay.StringFixed(2))
	}
}
