package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business is the caller-owned snapshot of a listed business. Monetary
// values are fixed-point decimals; a nil pointer means the value was not
// reported, which is different from zero.
type Business struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title" validate:"required"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	// Financials.
	Revenue        *decimal.Decimal `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	Profit         *decimal.Decimal `json:"profit,omitempty" yaml:"profit,omitempty"`
	CashFlow       *decimal.Decimal `json:"cash_flow,omitempty" yaml:"cash_flow,omitempty"`
	EBITDA         *decimal.Decimal `json:"ebitda,omitempty" yaml:"ebitda,omitempty"`
	GrossMargin    *float64         `json:"gross_margin,omitempty" yaml:"gross_margin,omitempty"`
	NetMargin      *float64         `json:"net_margin,omitempty" yaml:"net_margin,omitempty"`
	MonthlyRevenue *decimal.Decimal `json:"monthly_revenue,omitempty" yaml:"monthly_revenue,omitempty"`
	YearlyGrowth   *float64         `json:"yearly_growth,omitempty" yaml:"yearly_growth,omitempty"` // fraction, 0.12 = 12%
	AskingPrice    *decimal.Decimal `json:"asking_price,omitempty" yaml:"asking_price,omitempty"`
	TotalAssets    *decimal.Decimal `json:"total_assets,omitempty" yaml:"total_assets,omitempty"`
	Liabilities    *decimal.Decimal `json:"liabilities,omitempty" yaml:"liabilities,omitempty"`
	Inventory      *decimal.Decimal `json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Equipment      *decimal.Decimal `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	RealEstate     *decimal.Decimal `json:"real_estate,omitempty" yaml:"real_estate,omitempty"`

	// Operations.
	Established      *time.Time `json:"established,omitempty" yaml:"established,omitempty"`
	Employees        *int       `json:"employees,omitempty" yaml:"employees,omitempty" validate:"omitempty,min=0"`
	CustomerBase     *int       `json:"customer_base,omitempty" yaml:"customer_base,omitempty" validate:"omitempty,min=0"`
	HoursOfOperation string     `json:"hours_of_operation,omitempty" yaml:"hours_of_operation,omitempty"`
	DaysOpen         []string   `json:"days_open,omitempty" yaml:"days_open,omitempty"`
	Seasonality      string     `json:"seasonality,omitempty" yaml:"seasonality,omitempty"`
	Competition      string     `json:"competition,omitempty" yaml:"competition,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// Money returns a decimal pointer for v. Convenience for fixtures and
// ingestion code.
func Money(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Date returns a pointer to the UTC midnight of the given calendar day.
func Date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
