package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/bizhealth/internal/model"
)

func testAssessor() confidenceAssessor {
	return confidenceAssessor{bench: DefaultBenchmarks(), w: DefaultWeights().Confidence}
}

func TestCompleteness(t *testing.T) {
	a := testAssessor()

	full, _ := a.completeness(testInput(scenarioA()))
	assert.InDelta(t, 53.75, full, 0.01)

	none, factors := a.completeness(testInput(&model.Business{}))
	assert.Equal(t, 0.0, none)
	assert.True(t, containsSubstring(factors, "Missing critical fields: revenue, profit"))
}

func TestQuality_Inconsistencies(t *testing.T) {
	a := testAssessor()

	clean, _ := a.quality(testInput(&model.Business{
		Revenue:   model.Money(100000),
		Profit:    model.Money(20000),
		NetMargin: model.Float(0.2),
	}))
	// 85 data quality averaged with 50 for an unknown age.
	assert.InDelta(t, 67.5, clean, 0.001)

	dirty, factors := a.quality(testInput(&model.Business{
		Revenue:   model.Money(100000),
		Profit:    model.Money(150000),
		NetMargin: model.Float(0.2),
	}))
	// Two issues: -50, margin issue -30.
	assert.InDelta(t, 27.5, dirty, 0.001)
	assert.True(t, containsSubstring(factors, "profit exceeds revenue"))
	assert.True(t, containsSubstring(factors, "disagrees with profit/revenue"))
}

func TestQuality_ManyIssuesFloorAtZero(t *testing.T) {
	a := testAssessor()
	q, _ := a.quality(testInput(&model.Business{
		Revenue:     model.Money(100),
		Profit:      model.Money(500),
		EBITDA:      model.Money(600),
		CashFlow:    model.Money(700),
		GrossMargin: model.Float(1.5),
		Inventory:   model.Money(-5),
		Established: model.Date(2030, time.January, 1),
	}))
	// Data quality floors at 0; a future date scores 10.
	assert.InDelta(t, 5, q, 0.001)
}

func TestQuality_Outliers(t *testing.T) {
	a := testAssessor()
	_, factors := a.quality(testInput(&model.Business{
		Category:     model.CategoryRestaurant,
		YearlyGrowth: model.Float(3),
	}))
	assert.True(t, containsSubstring(factors, "Unusual values for the category: yearly growth"))
}

func TestAgePlausibility(t *testing.T) {
	tests := []struct {
		name        string
		established *time.Time
		want        float64
	}{
		{"unknown", nil, 50},
		{"future", model.Date(2026, time.January, 1), 10},
		{"ancient", model.Date(1900, time.January, 1), 20},
		{"young", model.Date(2025, time.January, 1), 70},
		{"normal", model.Date(2015, time.January, 1), 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := agePlausibility(testInput(&model.Business{Established: tt.established}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsistencyScore(t *testing.T) {
	mk := func(scores ...float64) Breakdown {
		sbs := make([]ScoreBreakdown, 4)
		for i, s := range scores {
			sbs[i] = ScoreBreakdown{Score: s, Available: true}
		}
		return Breakdown{Financial: sbs[0], Growth: sbs[1], Operational: sbs[2], SaleReadiness: sbs[3]}
	}

	tests := []struct {
		name string
		bd   Breakdown
		want float64
	}{
		{"tight", mk(70, 72, 68, 70), 95},
		{"moderate", mk(50, 70, 60, 80), 85},
		{"wide", mk(20, 80, 40, 70), 70},
		{"scattered", mk(0, 100, 0, 100), 50},
		{"single dimension", mk(40), 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, factors := consistencyScore(tt.bd)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, factors)
		})
	}
}

func TestAssess_BandFactor(t *testing.T) {
	res, err := newTestCalculator().Calculate(scenarioA())
	if !assert.NoError(t, err) {
		return
	}
	last := res.Confidence.Factors[len(res.Confidence.Factors)-1]
	assert.Contains(t, last, "High confidence")
	assert.InDelta(t,
		res.Confidence.DataCompleteness*0.4+res.Confidence.DataQuality*0.35+res.Confidence.Consistency*0.25,
		res.Confidence.Overall, 0.0001)
}
