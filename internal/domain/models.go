package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a global credential record. Password holds the stored secret
// (bcrypt hash, or a legacy plain-text value pending upgrade) and is
// stripped before a User leaves the auth service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	PhotoRef      string          `json:"photo_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type ProductCreateRequest struct {
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	PhotoRef      string          `json:"photo_ref,omitempty"`
}

type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	StockQuantity *int             `json:"stock_quantity,omitempty"`
	PhotoRef      *string          `json:"photo_ref,omitempty"`
}

type Employee struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	SalesGoal    decimal.Decimal `json:"sales_goal"`
	BonusPercent float64         `json:"bonus_percent"`
	CreatedAt    time.Time       `json:"created_at"`
}

type EmployeeCreateRequest struct {
	Name         string          `json:"name"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	SalesGoal    decimal.Decimal `json:"sales_goal"`
	BonusPercent float64         `json:"bonus_percent"`
}

type EmployeePatch struct {
	Name         *string          `json:"name,omitempty"`
	BaseSalary   *decimal.Decimal `json:"base_salary,omitempty"`
	SalesGoal    *decimal.Decimal `json:"sales_goal,omitempty"`
	BonusPercent *float64         `json:"bonus_percent,omitempty"`
}

type ProductStats struct {
	TotalProducts int             `json:"total_products"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
}

// SaleLineRequest is one entry of the ephemeral cart handed to the sale
// processor. Duplicate product ids are merged before validation.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SaleLineItem freezes the product's name and price at transaction time so
// later catalog edits never rewrite sale history.
type SaleLineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Sale struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	LineItems    []SaleLineItem  `json:"line_items"`
	TotalValue   decimal.Decimal `json:"total_value"`
	CreatedAt    time.Time       `json:"created_at"`
}

type EmployeeTotals struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	TotalSold    decimal.Decimal `json:"total_sold"`
	SaleCount    int             `json:"sale_count"`
}

type ProductRanking struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	QuantitySold int             `json:"quantity_sold"`
	RevenueSold  decimal.Decimal `json:"revenue_sold"`
}

type BonusRow struct {
	Employee      Employee        `json:"employee"`
	Sold          decimal.Decimal `json:"sold"`
	Goal          decimal.Decimal `json:"goal"`
	PercentOfGoal float64         `json:"percent_of_goal"`
	GoalReached   bool            `json:"goal_reached"`
	BonusEarned   decimal.Decimal `json:"bonus_earned"`
	TotalPay      decimal.Decimal `json:"total_pay"`
}

type DailyPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Dashboard struct {
	Owner        string           `json:"owner"`
	TodayTotal   decimal.Decimal  `json:"today_total"`
	TodayCount   int              `json:"today_count"`
	RecentSales  []Sale           `json:"recent_sales"`
	Daily        []DailyPoint     `json:"daily"`
	TopProducts  []ProductRanking `json:"top_products"`
	PerEmployee  []EmployeeTotals `json:"per_employee"`
	ProductStats ProductStats     `json:"product_stats"`
	GeneratedAt  time.Time        `json:"generated_at"`
}
