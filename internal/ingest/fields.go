package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/bizhealth/internal/model"
)

type setter func(b *model.Business, v string) error

// fields maps normalized column names to snapshot setters. Columns not
// listed here are ignored.
var fields = map[string]setter{
	"id":          func(b *model.Business, v string) error { b.ID = v; return nil },
	"title":       func(b *model.Business, v string) error { b.Title = v; return nil },
	"description": func(b *model.Business, v string) error { b.Description = v; return nil },
	"category": func(b *model.Business, v string) error {
		b.Category, _ = model.ParseCategory(v)
		return nil
	},

	"revenue":         money(func(b *model.Business) **decimal.Decimal { return &b.Revenue }),
	"profit":          money(func(b *model.Business) **decimal.Decimal { return &b.Profit }),
	"cash_flow":       money(func(b *model.Business) **decimal.Decimal { return &b.CashFlow }),
	"ebitda":          money(func(b *model.Business) **decimal.Decimal { return &b.EBITDA }),
	"monthly_revenue": money(func(b *model.Business) **decimal.Decimal { return &b.MonthlyRevenue }),
	"asking_price":    money(func(b *model.Business) **decimal.Decimal { return &b.AskingPrice }),
	"total_assets":    money(func(b *model.Business) **decimal.Decimal { return &b.TotalAssets }),
	"liabilities":     money(func(b *model.Business) **decimal.Decimal { return &b.Liabilities }),
	"inventory":       money(func(b *model.Business) **decimal.Decimal { return &b.Inventory }),
	"equipment":       money(func(b *model.Business) **decimal.Decimal { return &b.Equipment }),
	"real_estate":     money(func(b *model.Business) **decimal.Decimal { return &b.RealEstate }),

	"gross_margin":  fraction(func(b *model.Business) **float64 { return &b.GrossMargin }),
	"net_margin":    fraction(func(b *model.Business) **float64 { return &b.NetMargin }),
	"yearly_growth": fraction(func(b *model.Business) **float64 { return &b.YearlyGrowth }),

	"employees":     count(func(b *model.Business) **int { return &b.Employees }),
	"customer_base": count(func(b *model.Business) **int { return &b.CustomerBase }),

	"established": func(b *model.Business, v string) error {
		t, err := parseDate(v)
		if err != nil {
			return err
		}
		b.Established = &t
		return nil
	},
	"hours_of_operation": func(b *model.Business, v string) error { b.HoursOfOperation = v; return nil },
	"seasonality":        func(b *model.Business, v string) error { b.Seasonality = v; return nil },
	"competition":        func(b *model.Business, v string) error { b.Competition = v; return nil },
	"days_open": func(b *model.Business, v string) error {
		b.DaysOpen = splitList(v)
		return nil
	},
}

// aliases lets spreadsheets use common alternative headers.
var aliases = map[string]string{
	"name":            "title",
	"industry":        "category",
	"annual_revenue":  "revenue",
	"net_income":      "profit",
	"cashflow":        "cash_flow",
	"growth":          "yearly_growth",
	"year_founded":    "established",
	"founded":         "established",
	"customers":       "customer_base",
	"hours":           "hours_of_operation",
	"price":           "asking_price",
	"employee_count":  "employees",
	"number_of_staff": "employees",
}

// normalizeKey turns "Cash Flow" or "cash-flow" into "cash_flow".
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	if a, ok := aliases[k]; ok {
		return a
	}
	return k
}

// setField applies one raw value. Empty values leave the field unset.
func setField(b *model.Business, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	set, ok := fields[normalizeKey(key)]
	if !ok {
		return nil
	}
	if err := set(b, value); err != nil {
		return eris.Wrapf(err, "field %s", normalizeKey(key))
	}
	return nil
}

func money(field func(*model.Business) **decimal.Decimal) setter {
	return func(b *model.Business, v string) error {
		d, err := parseMoney(v)
		if err != nil {
			return err
		}
		*field(b) = &d
		return nil
	}
}

func fraction(field func(*model.Business) **float64) setter {
	return func(b *model.Business, v string) error {
		f, err := parseFraction(v)
		if err != nil {
			return err
		}
		*field(b) = &f
		return nil
	}
}

func count(field func(*model.Business) **int) setter {
	return func(b *model.Business, v string) error {
		n, err := parseCount(v)
		if err != nil {
			return err
		}
		*field(b) = &n
		return nil
	}
}

// parseMoney accepts "425000", "$425,000.50" and "(1,200)" for negatives.
func parseMoney(v string) (decimal.Decimal, error) {
	neg := strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")")
	v = strings.Trim(v, "()")
	v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, eris.Wrapf(err, "parse money %q", v)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// parseFraction accepts "0.15" or "15%".
func parseFraction(v string) (float64, error) {
	pct := strings.HasSuffix(v, "%")
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse fraction %q", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, eris.Errorf("parse fraction %q: not a finite number", v)
	}
	if pct {
		f /= 100
	}
	return f, nil
}

func parseCount(v string) (int, error) {
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse count %q", v)
	}
	if f != float64(int(f)) {
		return 0, eris.Errorf("parse count %q: not a whole number", v)
	}
	return int(f), nil
}

// parseDate accepts a bare year, YYYY-MM-DD or RFC 3339.
func parseDate(v string) (time.Time, error) {
	if len(v) == 4 {
		y, err := strconv.Atoi(v)
		if err == nil {
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "01/02/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, eris.Errorf("parse date %q", v)
}

func splitList(v string) []string {
	sep := ";"
	if !strings.Contains(v, ";") {
		sep = ","
	}
	var out []string
	for _, p := range strings.Split(v, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
