// Package analytics derives reporting figures from the raw sale history and
// the current catalog state. Every function is a pure computation over its
// inputs; nothing here reads storage or keeps state.
package analytics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"retailmanager/internal/domain"
)

// RevenueInWindow sums sale totals with CreatedAt in [start, end).
func RevenueInWindow(sales []domain.Sale, start time.Time, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(end) {
			continue
		}
		total = total.Add(sale.TotalValue)
	}
	return total
}

// RecentSales returns up to n sales ordered newest first. The sort is
// stable, so sales sharing a timestamp keep their original relative order.
func RecentSales(sales []domain.Sale, n int) []domain.Sale {
	if n < 1 {
		return []domain.Sale{}
	}

	result := make([]domain.Sale, len(sales))
	copy(result, sales)
	slices.SortStableFunc(result, func(a, b domain.Sale) int {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return 1
		}
		return 0
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// PerEmployeeTotals groups sales by employee id, so totals survive employee
// renames. The name carried on each entry is the most recent snapshot seen.
func PerEmployeeTotals(sales []domain.Sale) map[string]domain.EmployeeTotals {
	totals := make(map[string]domain.EmployeeTotals)
	for _, sale := range sales {
		entry, ok := totals[sale.EmployeeID]
		if !ok {
			entry = domain.EmployeeTotals{
				EmployeeID: sale.EmployeeID,
				TotalSold:  decimal.Zero,
			}
		}
		entry.EmployeeName = sale.EmployeeName
		entry.TotalSold = entry.TotalSold.Add(sale.TotalValue)
		entry.SaleCount++
		totals[sale.EmployeeID] = entry
	}
	return totals
}

// TopProducts ranks products by revenue across all line items, descending.
// Ties keep first-encountered order; the result is truncated to n entries.
func TopProducts(sales []domain.Sale, n int) []domain.ProductRanking {
	if n < 1 {
		return []domain.ProductRanking{}
	}

	index := make(map[string]int)
	rankings := make([]domain.ProductRanking, 0, 16)
	for _, sale := range sales {
		for _, item := range sale.LineItems {
			idx, ok := index[item.ProductID]
			if !ok {
				idx = len(rankings)
				index[item.ProductID] = idx
				rankings = append(rankings, domain.ProductRanking{
					ProductID:   item.ProductID,
					Name:        item.Name,
					RevenueSold: decimal.Zero,
				})
			}
			rankings[idx].QuantitySold += item.Quantity
			rankings[idx].RevenueSold = rankings[idx].RevenueSold.Add(item.Subtotal)
		}
	}

	slices.SortStableFunc(rankings, func(a, b domain.ProductRanking) int {
		return b.RevenueSold.Cmp(a.RevenueSold)
	})
	if len(rankings) > n {
		rankings = rankings[:n]
	}
	return rankings
}

// BonusReport evaluates goal attainment for every employee, including those
// with zero sales. The bonus applies only when the sold total meets or
// exceeds the goal; a zero goal counts as zero percent attained, not as an
// automatic payout of infinity.
func BonusReport(employees []domain.Employee, totals map[string]domain.EmployeeTotals) []domain.BonusRow {
	rows := make([]domain.BonusRow, 0, len(employees))
	for _, employee := range employees {
		sold := decimal.Zero
		if entry, ok := totals[employee.ID]; ok {
			sold = entry.TotalSold
		}

		percentOfGoal := 0.0
		if employee.SalesGoal.IsPositive() {
			percentOfGoal, _ = sold.Div(employee.SalesGoal).Mul(decimal.NewFromInt(100)).Float64()
		}
		goalReached := sold.Cmp(employee.SalesGoal) >= 0

		bonus := decimal.Zero
		if goalReached {
			bonus = employee.BaseSalary.Mul(decimal.NewFromFloat(employee.BonusPercent)).Div(decimal.NewFromInt(100))
		}

		rows = append(rows, domain.BonusRow{
			Employee:      employee,
			Sold:          sold,
			Goal:          employee.SalesGoal,
			PercentOfGoal: percentOfGoal,
			GoalReached:   goalReached,
			BonusEarned:   bonus,
			TotalPay:      employee.BaseSalary.Add(bonus),
		})
	}
	return rows
}

// DailySeries buckets sales into the trailing days calendar days ending at
// now's day, oldest first, with zero-filled entries for quiet days. Day
// boundaries follow now's location.
func DailySeries(sales []domain.Sale, days int, now time.Time) []domain.DailyPoint {
	if days < 1 {
		return []domain.DailyPoint{}
	}

	loc := now.Location()
	index := make(map[string]int, days)
	series := make([]domain.DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.In(loc).AddDate(0, 0, -i).Format(time.DateOnly)
		index[date] = len(series)
		series = append(series, domain.DailyPoint{Date: date, Total: decimal.Zero})
	}

	for _, sale := range sales {
		date := sale.CreatedAt.In(loc).Format(time.DateOnly)
		idx, ok := index[date]
		if !ok {
			continue
		}
		series[idx].Total = series[idx].Total.Add(sale.TotalValue)
		series[idx].Count++
	}
	return series
}
