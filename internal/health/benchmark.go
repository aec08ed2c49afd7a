package health

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bizhealth/internal/model"
)

// Age brackets used to pick growth benchmarks.
const (
	BracketNew         = "new"         // under 2 years
	BracketGrowing     = "growing"     // 2 to 5 years
	BracketMature      = "mature"      // 5 to 10 years
	BracketEstablished = "established" // over 10 years
)

// Multiples are typical small-business valuation multiples for a category.
// SDE is seller's discretionary earnings, approximated by reported profit.
type Multiples struct {
	Revenue float64 `json:"revenue" yaml:"revenue"`
	EBITDA  float64 `json:"ebitda" yaml:"ebitda"`
	SDE     float64 `json:"sde" yaml:"sde"`
}

// IndustryBenchmark is the benchmark row for one category.
type IndustryBenchmark struct {
	GrossMargin          Thresholds `json:"grossMargin" yaml:"gross_margin"`
	NetMargin            Thresholds `json:"netMargin" yaml:"net_margin"`
	EBITDAMargin         Thresholds `json:"ebitdaMargin" yaml:"ebitda_margin"`
	RevenuePerEmployee   Thresholds `json:"revenuePerEmployee" yaml:"revenue_per_employee"`
	ScalabilityPerEmp    Thresholds `json:"scalabilityPerEmployee" yaml:"scalability_per_employee"`
	RevenuePerCustomer   Thresholds `json:"revenuePerCustomer" yaml:"revenue_per_customer"`
	ExpectedCustomers    float64    `json:"expectedCustomers" yaml:"expected_customers"`
	GrowthPotential      float64    `json:"growthPotential" yaml:"growth_potential"`
	MarketAttractiveness float64    `json:"marketAttractiveness" yaml:"market_attractiveness"`
	Valuation            Multiples  `json:"valuation" yaml:"valuation"`
}

// Benchmarks is the complete, immutable benchmark configuration injected
// into a Calculator.
type Benchmarks struct {
	Industries map[model.Category]IndustryBenchmark `json:"industries" yaml:"industries"`
	Growth     map[string]Thresholds                `json:"growth" yaml:"growth"`

	CashFlowRatio       Thresholds `json:"cashFlowRatio" yaml:"cash_flow_ratio"`
	WorkingCapitalRatio Thresholds `json:"workingCapitalRatio" yaml:"working_capital_ratio"`
	AssetTurnover       Thresholds `json:"assetTurnover" yaml:"asset_turnover"`
	RevenueConsistency  Thresholds `json:"revenueConsistency" yaml:"revenue_consistency"`
	CustomerBaseRatio   Thresholds `json:"customerBaseRatio" yaml:"customer_base_ratio"`
}

// Industry returns the benchmark row for c, falling back to OTHER.
func (b Benchmarks) Industry(c model.Category) IndustryBenchmark {
	if row, ok := b.Industries[c]; ok {
		return row
	}
	return b.Industries[model.CategoryOther]
}

// GrowthFor returns the growth thresholds for an age bracket, falling back
// to the growing bracket.
func (b Benchmarks) GrowthFor(bracket string) Thresholds {
	if t, ok := b.Growth[bracket]; ok {
		return t
	}
	return b.Growth[BracketGrowing]
}

// AgeBracket classifies a business age in years. Unknown ages (ok=false)
// are treated as growing.
func AgeBracket(age float64, ok bool) string {
	switch {
	case !ok:
		return BracketGrowing
	case age < 2:
		return BracketNew
	case age <= 5:
		return BracketGrowing
	case age <= 10:
		return BracketMature
	default:
		return BracketEstablished
	}
}

// DefaultBenchmarks returns the small-business benchmark set. Margins and
// ratios are fractions; per-employee and per-customer figures are annual
// revenue in the listing currency.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		Industries: map[model.Category]IndustryBenchmark{
			model.CategoryTechnology: {
				GrossMargin:          Thresholds{0.40, 0.55, 0.65, 0.75},
				NetMargin:            Thresholds{0.00, 0.05, 0.12, 0.20},
				EBITDAMargin:         Thresholds{0.05, 0.12, 0.20, 0.30},
				RevenuePerEmployee:   Thresholds{20_000, 40_000, 80_000, 150_000},
				ScalabilityPerEmp:    Thresholds{30_000, 75_000, 150_000, 250_000},
				RevenuePerCustomer:   Thresholds{500, 2_000, 8_000, 25_000},
				ExpectedCustomers:    150,
				GrowthPotential:      85,
				MarketAttractiveness: 85,
				Valuation:            Multiples{Revenue: 1.5, EBITDA: 6.0, SDE: 4.0},
			},
			model.CategoryRestaurant: {
				GrossMargin:          Thresholds{0.50, 0.60, 0.68, 0.75},
				NetMargin:            Thresholds{0.03, 0.06, 0.10, 0.15},
				EBITDAMargin:         Thresholds{0.05, 0.10, 0.15, 0.20},
				RevenuePerEmployee:   Thresholds{30_000, 50_000, 75_000, 100_000},
				ScalabilityPerEmp:    Thresholds{30_000, 50_000, 75_000, 100_000},
				RevenuePerCustomer:   Thresholds{10, 20, 40, 75},
				ExpectedCustomers:    5_000,
				GrowthPotential:      45,
				MarketAttractiveness: 50,
				Valuation:            Multiples{Revenue: 0.35, EBITDA: 3.0, SDE: 2.0},
			},
			model.CategoryRetail: {
				GrossMargin:          Thresholds{0.25, 0.35, 0.45, 0.55},
				NetMargin:            Thresholds{0.02, 0.05, 0.08, 0.12},
				EBITDAMargin:         Thresholds{0.04, 0.08, 0.12, 0.16},
				RevenuePerEmployee:   Thresholds{60_000, 100_000, 150_000, 220_000},
				ScalabilityPerEmp:    Thresholds{60_000, 100_000, 160_000, 250_000},
				RevenuePerCustomer:   Thresholds{20, 50, 120, 300},
				ExpectedCustomers:    3_000,
				GrowthPotential:      50,
				MarketAttractiveness: 55,
				Valuation:            Multiples{Revenue: 0.45, EBITDA: 3.5, SDE: 2.3},
			},
			model.CategoryServices: {
				GrossMargin:          Thresholds{0.30, 0.45, 0.55, 0.65},
				NetMargin:            Thresholds{0.05, 0.10, 0.15, 0.22},
				EBITDAMargin:         Thresholds{0.08, 0.14, 0.20, 0.28},
				RevenuePerEmployee:   Thresholds{15_000, 30_000, 60_000, 100_000},
				ScalabilityPerEmp:    Thresholds{20_000, 50_000, 100_000, 175_000},
				RevenuePerCustomer:   Thresholds{200, 800, 2_500, 8_000},
				ExpectedCustomers:    400,
				GrowthPotential:      60,
				MarketAttractiveness: 65,
				Valuation:            Multiples{Revenue: 0.8, EBITDA: 4.0, SDE: 2.8},
			},
			model.CategoryManufacturing: {
				GrossMargin:          Thresholds{0.20, 0.30, 0.38, 0.48},
				NetMargin:            Thresholds{0.03, 0.07, 0.11, 0.16},
				EBITDAMargin:         Thresholds{0.06, 0.11, 0.16, 0.22},
				RevenuePerEmployee:   Thresholds{80_000, 140_000, 200_000, 300_000},
				ScalabilityPerEmp:    Thresholds{80_000, 140_000, 220_000, 320_000},
				RevenuePerCustomer:   Thresholds{2_000, 10_000, 40_000, 120_000},
				ExpectedCustomers:    120,
				GrowthPotential:      55,
				MarketAttractiveness: 70,
				Valuation:            Multiples{Revenue: 0.7, EBITDA: 5.0, SDE: 3.2},
			},
			model.CategoryHealthcare: {
				GrossMargin:          Thresholds{0.35, 0.50, 0.60, 0.70},
				NetMargin:            Thresholds{0.05, 0.10, 0.15, 0.22},
				EBITDAMargin:         Thresholds{0.08, 0.14, 0.20, 0.28},
				RevenuePerEmployee:   Thresholds{50_000, 90_000, 130_000, 180_000},
				ScalabilityPerEmp:    Thresholds{50_000, 90_000, 140_000, 200_000},
				RevenuePerCustomer:   Thresholds{150, 500, 1_500, 4_000},
				ExpectedCustomers:    1_200,
				GrowthPotential:      75,
				MarketAttractiveness: 80,
				Valuation:            Multiples{Revenue: 1.0, EBITDA: 5.5, SDE: 3.5},
			},
			model.CategoryAutomotive: {
				GrossMargin:          Thresholds{0.25, 0.38, 0.48, 0.58},
				NetMargin:            Thresholds{0.03, 0.06, 0.10, 0.15},
				EBITDAMargin:         Thresholds{0.05, 0.10, 0.15, 0.20},
				RevenuePerEmployee:   Thresholds{60_000, 100_000, 150_000, 220_000},
				ScalabilityPerEmp:    Thresholds{60_000, 100_000, 150_000, 220_000},
				RevenuePerCustomer:   Thresholds{150, 400, 900, 2_000},
				ExpectedCustomers:    1_000,
				GrowthPotential:      45,
				MarketAttractiveness: 55,
				Valuation:            Multiples{Revenue: 0.5, EBITDA: 3.5, SDE: 2.5},
			},
			model.CategoryRealEstate: {
				GrossMargin:          Thresholds{0.30, 0.45, 0.60, 0.75},
				NetMargin:            Thresholds{0.05, 0.12, 0.20, 0.30},
				EBITDAMargin:         Thresholds{0.10, 0.18, 0.28, 0.40},
				RevenuePerEmployee:   Thresholds{60_000, 120_000, 200_000, 320_000},
				ScalabilityPerEmp:    Thresholds{60_000, 120_000, 220_000, 350_000},
				RevenuePerCustomer:   Thresholds{1_000, 4_000, 12_000, 30_000},
				ExpectedCustomers:    80,
				GrowthPotential:      55,
				MarketAttractiveness: 60,
				Valuation:            Multiples{Revenue: 1.2, EBITDA: 6.5, SDE: 3.5},
			},
			model.CategoryConstruction: {
				GrossMargin:          Thresholds{0.15, 0.22, 0.30, 0.40},
				NetMargin:            Thresholds{0.02, 0.05, 0.09, 0.14},
				EBITDAMargin:         Thresholds{0.04, 0.08, 0.13, 0.18},
				RevenuePerEmployee:   Thresholds{80_000, 130_000, 190_000, 260_000},
				ScalabilityPerEmp:    Thresholds{80_000, 130_000, 200_000, 280_000},
				RevenuePerCustomer:   Thresholds{2_000, 8_000, 25_000, 80_000},
				ExpectedCustomers:    100,
				GrowthPotential:      55,
				MarketAttractiveness: 55,
				Valuation:            Multiples{Revenue: 0.5, EBITDA: 3.5, SDE: 2.5},
			},
			model.CategoryEcommerce: {
				GrossMargin:          Thresholds{0.25, 0.40, 0.50, 0.65},
				NetMargin:            Thresholds{0.02, 0.07, 0.12, 0.20},
				EBITDAMargin:         Thresholds{0.04, 0.10, 0.16, 0.24},
				RevenuePerEmployee:   Thresholds{80_000, 150_000, 250_000, 400_000},
				ScalabilityPerEmp:    Thresholds{100_000, 200_000, 350_000, 500_000},
				RevenuePerCustomer:   Thresholds{25, 60, 150, 400},
				ExpectedCustomers:    4_000,
				GrowthPotential:      80,
				MarketAttractiveness: 80,
				Valuation:            Multiples{Revenue: 1.0, EBITDA: 4.5, SDE: 3.2},
			},
			model.CategoryOther: {
				GrossMargin:          Thresholds{0.25, 0.40, 0.50, 0.60},
				NetMargin:            Thresholds{0.03, 0.07, 0.12, 0.18},
				EBITDAMargin:         Thresholds{0.05, 0.10, 0.16, 0.22},
				RevenuePerEmployee:   Thresholds{40_000, 80_000, 130_000, 200_000},
				ScalabilityPerEmp:    Thresholds{40_000, 80_000, 140_000, 220_000},
				RevenuePerCustomer:   Thresholds{100, 400, 1_500, 5_000},
				ExpectedCustomers:    500,
				GrowthPotential:      55,
				MarketAttractiveness: 55,
				Valuation:            Multiples{Revenue: 0.6, EBITDA: 4.0, SDE: 2.6},
			},
		},
		Growth: map[string]Thresholds{
			BracketNew:         {0.00, 0.15, 0.30, 0.50},
			BracketGrowing:     {0.00, 0.10, 0.20, 0.35},
			BracketMature:      {-0.02, 0.05, 0.12, 0.20},
			BracketEstablished: {-0.03, 0.03, 0.08, 0.15},
		},
		CashFlowRatio:       Thresholds{0.02, 0.08, 0.15, 0.25},
		WorkingCapitalRatio: Thresholds{0.00, 0.10, 0.25, 0.40},
		AssetTurnover:       Thresholds{0.5, 1.0, 2.0, 3.0},
		RevenueConsistency:  Thresholds{0.50, 0.75, 0.90, 0.97},
		CustomerBaseRatio:   Thresholds{0.25, 0.75, 1.25, 2.0},
	}
}

// LoadBenchmarks reads a YAML benchmark file and overlays it on the
// defaults. Industry rows and growth brackets present in the file replace
// the default row wholesale; scalar tables replace the default when set.
func LoadBenchmarks(path string) (Benchmarks, error) {
	base := DefaultBenchmarks()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Benchmarks{}, eris.Wrapf(err, "health: read benchmarks %s", path)
	}

	var override Benchmarks
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Benchmarks{}, eris.Wrapf(err, "health: parse benchmarks %s", path)
	}

	for c, row := range override.Industries {
		cat, ok := model.ParseCategory(string(c))
		if !ok {
			return Benchmarks{}, eris.Errorf("health: unknown benchmark category %q", c)
		}
		base.Industries[cat] = row
	}
	for bracket, t := range override.Growth {
		base.Growth[bracket] = t
	}
	overlay := func(dst *Thresholds, src Thresholds) {
		if src != (Thresholds{}) {
			*dst = src
		}
	}
	overlay(&base.CashFlowRatio, override.CashFlowRatio)
	overlay(&base.WorkingCapitalRatio, override.WorkingCapitalRatio)
	overlay(&base.AssetTurnover, override.AssetTurnover)
	overlay(&base.RevenueConsistency, override.RevenueConsistency)
	overlay(&base.CustomerBaseRatio, override.CustomerBaseRatio)

	return base, nil
}
