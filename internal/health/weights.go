package health

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// DimensionWeights combine the four dimension scores into the overall score.
type DimensionWeights struct {
	Financial     float64 `json:"financial"`
	Growth        float64 `json:"growth"`
	Operational   float64 `json:"operational"`
	SaleReadiness float64 `json:"saleReadiness"`
}

// FinancialWeights weight the financial sub-scores and their inputs.
type FinancialWeights struct {
	Profitability      float64 `json:"profitability"`
	Liquidity          float64 `json:"liquidity"`
	Efficiency         float64 `json:"efficiency"`
	GrossMargin        float64 `json:"grossMargin"`
	NetMargin          float64 `json:"netMargin"`
	EBITDAMargin       float64 `json:"ebitdaMargin"`
	CashFlow           float64 `json:"cashFlow"`
	WorkingCapital     float64 `json:"workingCapital"`
	RevenuePerEmployee float64 `json:"revenuePerEmployee"`
	AssetTurnover      float64 `json:"assetTurnover"`
}

// GrowthWeights weight the growth sub-scores and their inputs.
type GrowthWeights struct {
	RevenueGrowth      float64 `json:"revenueGrowth"`
	MarketExpansion    float64 `json:"marketExpansion"`
	Scalability        float64 `json:"scalability"`
	GrowthRate         float64 `json:"growthRate"`
	Consistency        float64 `json:"consistency"`
	CategoryPotential  float64 `json:"categoryPotential"`
	CustomerBase       float64 `json:"customerBase"`
	Competition        float64 `json:"competition"`
	RevenuePerEmployee float64 `json:"revenuePerEmployee"`
	Flexibility        float64 `json:"flexibility"`
	AssetEfficiency    float64 `json:"assetEfficiency"`
}

// OperationalWeights weight the operational sub-scores and their inputs.
type OperationalWeights struct {
	BusinessMaturity      float64 `json:"businessMaturity"`
	OperationalEfficiency float64 `json:"operationalEfficiency"`
	MarketPositioning     float64 `json:"marketPositioning"`
	Age                   float64 `json:"age"`
	Employees             float64 `json:"employees"`
	Hours                 float64 `json:"hours"`
	Seasonality           float64 `json:"seasonality"`
	RevenuePerCustomer    float64 `json:"revenuePerCustomer"`
	Competition           float64 `json:"competition"`
	Differentiation       float64 `json:"differentiation"`
	Presence              float64 `json:"presence"`
}

// SaleReadinessWeights weight the sale-readiness sub-scores and their inputs.
type SaleReadinessWeights struct {
	Valuation               float64 `json:"valuation"`
	Attractiveness          float64 `json:"attractiveness"`
	Documentation           float64 `json:"documentation"`
	RevenueMultiple         float64 `json:"revenueMultiple"`
	EBITDAMultiple          float64 `json:"ebitdaMultiple"`
	SDEMultiple             float64 `json:"sdeMultiple"`
	CategoryAttractiveness  float64 `json:"categoryAttractiveness"`
	Presentation            float64 `json:"presentation"`
	Disclosure              float64 `json:"disclosure"`
	FinancialCompleteness   float64 `json:"financialCompleteness"`
	OperationalCompleteness float64 `json:"operationalCompleteness"`
	DescriptionQuality      float64 `json:"descriptionQuality"`
}

// ConfidenceWeights weight the three confidence assessments.
type ConfidenceWeights struct {
	Completeness float64 `json:"completeness"`
	Quality      float64 `json:"quality"`
	Consistency  float64 `json:"consistency"`
}

// Weights is every weight the engine uses. Values are injected at
// construction and never modified.
type Weights struct {
	Overall       DimensionWeights     `json:"overall"`
	Financial     FinancialWeights     `json:"financial"`
	Growth        GrowthWeights        `json:"growth"`
	Operational   OperationalWeights   `json:"operational"`
	SaleReadiness SaleReadinessWeights `json:"saleReadiness"`
	Confidence    ConfidenceWeights    `json:"confidence"`

	StrengthThreshold  float64 `json:"strengthThreshold"`
	WeaknessThreshold  float64 `json:"weaknessThreshold"`
	MaxRecommendations int     `json:"maxRecommendations"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Overall: DimensionWeights{
			Financial:     0.40,
			Growth:        0.25,
			Operational:   0.20,
			SaleReadiness: 0.15,
		},
		Financial: FinancialWeights{
			Profitability:      0.4,
			Liquidity:          0.3,
			Efficiency:         0.3,
			GrossMargin:        0.4,
			NetMargin:          0.3,
			EBITDAMargin:       0.3,
			CashFlow:           0.6,
			WorkingCapital:     0.4,
			RevenuePerEmployee: 0.5,
			AssetTurnover:      0.5,
		},
		Growth: GrowthWeights{
			RevenueGrowth:      0.5,
			MarketExpansion:    0.3,
			Scalability:        0.2,
			GrowthRate:         0.7,
			Consistency:        0.3,
			CategoryPotential:  0.4,
			CustomerBase:       0.35,
			Competition:        0.25,
			RevenuePerEmployee: 0.4,
			Flexibility:        0.35,
			AssetEfficiency:    0.25,
		},
		Operational: OperationalWeights{
			BusinessMaturity:      0.4,
			OperationalEfficiency: 0.35,
			MarketPositioning:     0.25,
			Age:                   0.6,
			Employees:             0.4,
			Hours:                 0.4,
			Seasonality:           0.35,
			RevenuePerCustomer:    0.25,
			Competition:           0.5,
			Differentiation:       0.3,
			Presence:              0.2,
		},
		SaleReadiness: SaleReadinessWeights{
			Valuation:               0.5,
			Attractiveness:          0.3,
			Documentation:           0.2,
			RevenueMultiple:         0.5,
			EBITDAMultiple:          0.3,
			SDEMultiple:             0.2,
			CategoryAttractiveness:  0.4,
			Presentation:            0.35,
			Disclosure:              0.25,
			FinancialCompleteness:   0.5,
			OperationalCompleteness: 0.3,
			DescriptionQuality:      0.2,
		},
		Confidence: ConfidenceWeights{
			Completeness: 0.4,
			Quality:      0.35,
			Consistency:  0.25,
		},
		StrengthThreshold:  70,
		WeaknessThreshold:  50,
		MaxRecommendations: 8,
	}
}

// Validate checks that w is internally consistent: non-negative dimension
// weights summing to 1 and thresholds on the 0-100 scale.
func (w Weights) Validate() error {
	var errs []string

	dims := []struct {
		name string
		w    float64
	}{
		{"financial_weight", w.Overall.Financial},
		{"growth_weight", w.Overall.Growth},
		{"operational_weight", w.Overall.Operational},
		{"sale_readiness_weight", w.Overall.SaleReadiness},
	}
	var sum float64
	for _, d := range dims {
		if d.w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", d.name))
		}
		sum += d.w
	}
	if sum <= 0 {
		errs = append(errs, "weight sum must be > 0")
	}
	// Tolerance for floating-point sums like 0.1+0.2.
	if math.Abs(sum-1) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1, got %.3f", sum))
	}

	if w.StrengthThreshold < 0 || w.StrengthThreshold > 100 {
		errs = append(errs, "strength_threshold must be between 0 and 100")
	}
	if w.WeaknessThreshold < 0 || w.WeaknessThreshold > 100 {
		errs = append(errs, "weakness_threshold must be between 0 and 100")
	}
	if w.WeaknessThreshold > w.StrengthThreshold {
		errs = append(errs, "weakness_threshold must be <= strength_threshold")
	}
	if w.MaxRecommendations < 0 {
		errs = append(errs, "max_recommendations must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("health: weights validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
