package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bizhealth/internal/config"
	"github.com/sells-group/bizhealth/internal/health"
)

func defaultHealthConfig() config.HealthConfig {
	return config.HealthConfig{
		FinancialWeight:     0.40,
		GrowthWeight:        0.25,
		OperationalWeight:   0.20,
		SaleReadinessWeight: 0.15,
		StrengthThreshold:   70,
		WeaknessThreshold:   50,
		MaxRecommendations:  8,
	}
}

func TestWeightsFromConfig(t *testing.T) {
	c := defaultHealthConfig()
	assert.Equal(t, health.DefaultWeights(), weightsFromConfig(c))

	c.FinancialWeight = 0.55
	c.SaleReadinessWeight = 0
	c.MaxRecommendations = 3
	c.StrengthThreshold = 0

	w := weightsFromConfig(c)
	assert.InDelta(t, 0.55, w.Overall.Financial, 0.0001)
	assert.Equal(t, 0.0, w.Overall.SaleReadiness)
	assert.Equal(t, 3, w.MaxRecommendations)
	assert.Equal(t, 70.0, w.StrengthThreshold, "zero keeps the default")
	assert.Equal(t, health.DefaultWeights().Financial, w.Financial)
}

func TestNewCalculator_RejectsBadWeights(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()

	cfg = &config.Config{Health: defaultHealthConfig()}
	calc, err := newCalculator()
	require.NoError(t, err)
	assert.Equal(t, health.DefaultWeights(), calc.Weights())

	cfg.Health.GrowthWeight = -0.25
	_, err = newCalculator()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growth_weight must be >= 0")

	cfg.Health = defaultHealthConfig()
	cfg.Health.WeaknessThreshold = -5
	_, err = newCalculator()
	assert.Error(t, err)
}
