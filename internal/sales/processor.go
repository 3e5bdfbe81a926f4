// Package sales turns a cart plus an employee selection into a committed
// Sale while protecting stock non-negativity. A sale either commits fully
// (stock decremented, record appended) or leaves the catalog untouched.
package sales

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"retailmanager/internal/cache"
	"retailmanager/internal/domain"
	"retailmanager/internal/store"
	"retailmanager/internal/xid"
)

type EmployeeNotFoundError struct {
	EmployeeID string
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("employee not found: %s", e.EmployeeID)
}

func (e *EmployeeNotFoundError) Is(target error) bool {
	return target == store.ErrNotFound
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == store.ErrNotFound
}

// InsufficientStockError reports the first line, in request order, whose
// merged quantity exceeds the available stock.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Name, e.Requested, e.Available)
}

type Processor struct {
	collections *store.Collections
	reports     cache.ReportCache
}

func New(collections *store.Collections, reports cache.ReportCache) *Processor {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}

	return &Processor{
		collections: collections,
		reports:     reports,
	}
}

// Process validates and executes one checkout. It is deliberately not
// idempotent: calling it twice with identical input records two sales and
// decrements stock twice.
func (p *Processor) Process(ctx context.Context, owner string, employeeID string, lines []domain.SaleLineRequest) (domain.Sale, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return domain.Sale{}, fmt.Errorf("%w: employee id is required", store.ErrInvalidInput)
	}

	merged, err := mergeLines(lines)
	if err != nil {
		return domain.Sale{}, err
	}

	unlock := p.collections.LockOwner(owner)
	defer unlock()

	employees, err := p.collections.LoadEmployees(ctx, owner)
	if err != nil {
		return domain.Sale{}, err
	}
	var employee *domain.Employee
	for i := range employees {
		if employees[i].ID == employeeID {
			employee = &employees[i]
			break
		}
	}
	if employee == nil {
		return domain.Sale{}, &EmployeeNotFoundError{EmployeeID: employeeID}
	}

	products, err := p.collections.LoadProducts(ctx, owner)
	if err != nil {
		return domain.Sale{}, err
	}
	productIdx := make(map[string]int, len(products))
	for i := range products {
		productIdx[products[i].ID] = i
	}

	// Validate every line against the snapshot before touching anything.
	for _, line := range merged {
		idx, ok := productIdx[line.ProductID]
		if !ok {
			return domain.Sale{}, &ProductNotFoundError{ProductID: line.ProductID}
		}
		product := products[idx]
		if line.Quantity > product.StockQuantity {
			return domain.Sale{}, &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: line.Quantity,
				Available: product.StockQuantity,
			}
		}
	}

	lineItems := make([]domain.SaleLineItem, 0, len(merged))
	total := decimal.Zero
	updated := make([]domain.Product, len(products))
	copy(updated, products)

	for _, line := range merged {
		idx := productIdx[line.ProductID]
		product := updated[idx]
		subtotal := product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lineItems = append(lineItems, domain.SaleLineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)

		product.StockQuantity -= line.Quantity
		updated[idx] = product
	}

	if err := p.collections.SaveProducts(ctx, owner, updated); err != nil {
		return domain.Sale{}, err
	}

	sale := domain.Sale{
		ID:           xid.New("sale"),
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		LineItems:    lineItems,
		TotalValue:   total,
		CreatedAt:    time.Now().UTC(),
	}

	sales, err := p.collections.LoadSales(ctx, owner)
	if err != nil {
		p.restoreProducts(ctx, owner, products)
		return domain.Sale{}, err
	}
	sales = append(sales, sale)
	if err := p.collections.SaveSales(ctx, owner, sales); err != nil {
		p.restoreProducts(ctx, owner, products)
		return domain.Sale{}, err
	}

	if err := p.reports.Invalidate(ctx, owner); err != nil {
		log.Printf("[sales] WARN: failed to invalidate report cache owner=%s: %v", owner, err)
	}

	return sale, nil
}

// restoreProducts puts the pre-sale catalog snapshot back after a failed
// sale append, so the stock decrement is not observed without its sale.
func (p *Processor) restoreProducts(ctx context.Context, owner string, products []domain.Product) {
	if err := p.collections.SaveProducts(ctx, owner, products); err != nil {
		log.Printf("[sales] WARN: failed to restore product stock owner=%s: %v", owner, err)
	}
}

// mergeLines folds duplicate product ids into one line, keeping the order
// of first occurrence. Two cart entries for one product must be checked as
// a single combined quantity, not as two independent stock checks.
func mergeLines(lines []domain.SaleLineRequest) ([]domain.SaleLineRequest, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: sale requires at least one line", store.ErrInvalidInput)
	}

	order := make([]string, 0, len(lines))
	quantities := make(map[string]int, len(lines))
	for _, line := range lines {
		productID := strings.TrimSpace(line.ProductID)
		if productID == "" {
			return nil, fmt.Errorf("%w: line product id is required", store.ErrInvalidInput)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: line quantity must be at least 1", store.ErrInvalidInput)
		}
		if _, seen := quantities[productID]; !seen {
			order = append(order, productID)
		}
		quantities[productID] += line.Quantity
	}

	merged := make([]domain.SaleLineRequest, 0, len(order))
	for _, productID := range order {
		merged = append(merged, domain.SaleLineRequest{ProductID: productID, Quantity: quantities[productID]})
	}
	return merged, nil
}
