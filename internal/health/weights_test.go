package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	sums := map[string]float64{
		"overall":       w.Overall.Financial + w.Overall.Growth + w.Overall.Operational + w.Overall.SaleReadiness,
		"financial":     w.Financial.Profitability + w.Financial.Liquidity + w.Financial.Efficiency,
		"growth":        w.Growth.RevenueGrowth + w.Growth.MarketExpansion + w.Growth.Scalability,
		"operational":   w.Operational.BusinessMaturity + w.Operational.OperationalEfficiency + w.Operational.MarketPositioning,
		"saleReadiness": w.SaleReadiness.Valuation + w.SaleReadiness.Attractiveness + w.SaleReadiness.Documentation,
		"confidence":    w.Confidence.Completeness + w.Confidence.Quality + w.Confidence.Consistency,
	}
	for name, sum := range sums {
		assert.InDelta(t, 1.0, sum, 0.0001, name)
	}
}

func TestWeightsValidate_Defaults(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidate_Errors(t *testing.T) {
	w := DefaultWeights()
	w.Overall.Growth = -0.25
	err := w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growth_weight must be >= 0")
	assert.Contains(t, err.Error(), "weights should sum to 1")

	w = DefaultWeights()
	w.Overall = DimensionWeights{}
	err = w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight sum must be > 0")

	w = DefaultWeights()
	w.WeaknessThreshold = 80
	err = w.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weakness_threshold must be <= strength_threshold")

	w = DefaultWeights()
	w.StrengthThreshold = 120
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.MaxRecommendations = -1
	assert.Error(t, w.Validate())
}
