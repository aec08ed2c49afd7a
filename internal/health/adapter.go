package health

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/sells-group/bizhealth/internal/model"
)

// Adapt maps a caller snapshot onto the engine's input types, converting
// fixed-point money to float64. Absent values stay nil, and so do NaN or
// infinite ones.
func Adapt(b *model.Business) (FinancialData, OperationalData) {
	fin := FinancialData{
		Revenue:        toFloat(b.Revenue),
		Profit:         toFloat(b.Profit),
		CashFlow:       toFloat(b.CashFlow),
		EBITDA:         toFloat(b.EBITDA),
		GrossMargin:    copyFloat(b.GrossMargin),
		NetMargin:      copyFloat(b.NetMargin),
		MonthlyRevenue: toFloat(b.MonthlyRevenue),
		YearlyGrowth:   copyFloat(b.YearlyGrowth),
		AskingPrice:    toFloat(b.AskingPrice),
		TotalAssets:    toFloat(b.TotalAssets),
		Liabilities:    toFloat(b.Liabilities),
		Inventory:      toFloat(b.Inventory),
		Equipment:      toFloat(b.Equipment),
		RealEstate:     toFloat(b.RealEstate),
	}

	op := OperationalData{
		HoursOfOperation: b.HoursOfOperation,
		Seasonality:      b.Seasonality,
		Competition:      b.Competition,
		Category:         b.Category,
		Description:      b.Description,
	}
	if b.Established != nil {
		t := b.Established.UTC()
		op.Established = &t
	}
	if b.Employees != nil {
		n := *b.Employees
		op.Employees = &n
	}
	if b.CustomerBase != nil {
		n := *b.CustomerBase
		op.CustomerBase = &n
	}
	if len(b.DaysOpen) > 0 {
		op.DaysOpen = append([]string(nil), b.DaysOpen...)
	}
	return fin, op
}

func toFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return finitePtr(f)
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return finitePtr(*v)
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

