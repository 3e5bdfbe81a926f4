// Package catalog owns Product and Employee CRUD for one storage namespace.
// Collections keep insertion order, so List is stable by creation order.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"retailmanager/internal/domain"
	"retailmanager/internal/store"
	"retailmanager/internal/xid"
)

// LowStockThreshold is the fixed policy constant below which a product
// counts as low stock in ProductStats.
const LowStockThreshold = 10

type Manager struct {
	collections *store.Collections
}

func New(collections *store.Collections) *Manager {
	return &Manager{collections: collections}
}

func (m *Manager) ListProducts(ctx context.Context, owner string) ([]domain.Product, error) {
	return m.collections.LoadProducts(ctx, owner)
}

func (m *Manager) CreateProduct(ctx context.Context, owner string, req domain.ProductCreateRequest) (domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Product{}, fmt.Errorf("%w: product name is required", store.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return domain.Product{}, fmt.Errorf("%w: unit price must not be negative", store.ErrInvalidInput)
	}
	if req.StockQuantity < 0 {
		return domain.Product{}, fmt.Errorf("%w: stock quantity must not be negative", store.ErrInvalidInput)
	}

	unlock := m.collections.LockOwner(owner)
	defer unlock()

	products, err := m.collections.LoadProducts(ctx, owner)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:            xid.New("prod"),
		Name:          req.Name,
		UnitPrice:     req.UnitPrice,
		StockQuantity: req.StockQuantity,
		PhotoRef:      req.PhotoRef,
		CreatedAt:     time.Now().UTC(),
	}
	products = append(products, product)

	if err := m.collections.SaveProducts(ctx, owner, products); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (m *Manager) UpdateProduct(ctx context.Context, owner string, id string, patch domain.ProductPatch) (domain.Product, error) {
	unlock := m.collections.LockOwner(owner)
	defer unlock()

	products, err := m.collections.LoadProducts(ctx, owner)
	if err != nil {
		return domain.Product{}, err
	}

	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Product{}, fmt.Errorf("%w: product %s", store.ErrNotFound, id)
	}

	updated := products[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Product{}, fmt.Errorf("%w: product name is required", store.ErrInvalidInput)
		}
		updated.Name = name
	}
	if patch.UnitPrice != nil {
		if patch.UnitPrice.IsNegative() {
			return domain.Product{}, fmt.Errorf("%w: unit price must not be negative", store.ErrInvalidInput)
		}
		updated.UnitPrice = *patch.UnitPrice
	}
	if patch.StockQuantity != nil {
		if *patch.StockQuantity < 0 {
			return domain.Product{}, fmt.Errorf("%w: stock quantity must not be negative", store.ErrInvalidInput)
		}
		updated.StockQuantity = *patch.StockQuantity
	}
	if patch.PhotoRef != nil {
		updated.PhotoRef = *patch.PhotoRef
	}

	products[idx] = updated
	if err := m.collections.SaveProducts(ctx, owner, products); err != nil {
		return domain.Product{}, err
	}
	return updated, nil
}

// DeleteProduct is idempotent: removing an id that is already absent leaves
// the collection untouched and returns nil.
func (m *Manager) DeleteProduct(ctx context.Context, owner string, id string) error {
	unlock := m.collections.LockOwner(owner)
	defer unlock()

	products, err := m.collections.LoadProducts(ctx, owner)
	if err != nil {
		return err
	}

	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID == id {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == len(products) {
		return nil
	}
	return m.collections.SaveProducts(ctx, owner, kept)
}

func (m *Manager) ProductStats(ctx context.Context, owner string) (domain.ProductStats, error) {
	products, err := m.collections.LoadProducts(ctx, owner)
	if err != nil {
		return domain.ProductStats{}, err
	}

	stats := domain.ProductStats{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
	}
	for _, p := range products {
		stats.TotalValue = stats.TotalValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
		if p.StockQuantity < LowStockThreshold {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

func (m *Manager) ListEmployees(ctx context.Context, owner string) ([]domain.Employee, error) {
	return m.collections.LoadEmployees(ctx, owner)
}

func (m *Manager) CreateEmployee(ctx context.Context, owner string, req domain.EmployeeCreateRequest) (domain.Employee, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Employee{}, fmt.Errorf("%w: employee name is required", store.ErrInvalidInput)
	}
	if req.BaseSalary.IsNegative() {
		return domain.Employee{}, fmt.Errorf("%w: base salary must not be negative", store.ErrInvalidInput)
	}
	if req.SalesGoal.IsNegative() {
		return domain.Employee{}, fmt.Errorf("%w: sales goal must not be negative", store.ErrInvalidInput)
	}
	if req.BonusPercent < 0 || req.BonusPercent > 100 {
		return domain.Employee{}, fmt.Errorf("%w: bonus percent must be between 0 and 100", store.ErrInvalidInput)
	}

	unlock := m.collections.LockOwner(owner)
	defer unlock()

	employees, err := m.collections.LoadEmployees(ctx, owner)
	if err != nil {
		return domain.Employee{}, err
	}

	employee := domain.Employee{
		ID:           xid.New("emp"),
		Name:         req.Name,
		BaseSalary:   req.BaseSalary,
		SalesGoal:    req.SalesGoal,
		BonusPercent: req.BonusPercent,
		CreatedAt:    time.Now().UTC(),
	}
	employees = append(employees, employee)

	if err := m.collections.SaveEmployees(ctx, owner, employees); err != nil {
		return domain.Employee{}, err
	}
	return employee, nil
}

func (m *Manager) UpdateEmployee(ctx context.Context, owner string, id string, patch domain.EmployeePatch) (domain.Employee, error) {
	unlock := m.collections.LockOwner(owner)
	defer unlock()

	employees, err := m.collections.LoadEmployees(ctx, owner)
	if err != nil {
		return domain.Employee{}, err
	}

	idx := -1
	for i := range employees {
		if employees[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Employee{}, fmt.Errorf("%w: employee %s", store.ErrNotFound, id)
	}

	updated := employees[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Employee{}, fmt.Errorf("%w: employee name is required", store.ErrInvalidInput)
		}
		updated.Name = name
	}
	if patch.BaseSalary != nil {
		if patch.BaseSalary.IsNegative() {
			return domain.Employee{}, fmt.Errorf("%w: base salary must not be negative", store.ErrInvalidInput)
		}
		updated.BaseSalary = *patch.BaseSalary
	}
	if patch.SalesGoal != nil {
		if patch.SalesGoal.IsNegative() {
			return domain.Employee{}, fmt.Errorf("%w: sales goal must not be negative", store.ErrInvalidInput)
		}
		updated.SalesGoal = *patch.SalesGoal
	}
	if patch.BonusPercent != nil {
		if *patch.BonusPercent < 0 || *patch.BonusPercent > 100 {
			return domain.Employee{}, fmt.Errorf("%w: bonus percent must be between 0 and 100", store.ErrInvalidInput)
		}
		updated.BonusPercent = *patch.BonusPercent
	}

	employees[idx] = updated
	if err := m.collections.SaveEmployees(ctx, owner, employees); err != nil {
		return domain.Employee{}, err
	}
	return updated, nil
}

func (m *Manager) DeleteEmployee(ctx context.Context, owner string, id string) error {
	unlock := m.collections.LockOwner(owner)
	defer unlock()

	employees, err := m.collections.LoadEmployees(ctx, owner)
	if err != nil {
		return err
	}

	kept := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if e.ID == id {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(employees) {
		return nil
	}
	return m.collections.SaveEmployees(ctx, owner, kept)
}
