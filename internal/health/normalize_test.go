package health

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeToScore_Ascending(t *testing.T) {
	th := Thresholds{Poor: 0.1, Average: 0.2, Good: 0.3, Excellent: 0.4}

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"below floor", -1, 0},
		{"at floor", 0, 0},
		{"floor to poor", 0.05, 12.5},
		{"at poor", 0.1, 25},
		{"poor to average", 0.15, 37.5},
		{"at average", 0.2, 50},
		{"at good", 0.3, 75},
		{"good to excellent", 0.35, 87.5},
		{"at excellent", 0.4, 100},
		{"saturates", 5, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeToScore(tt.value, th), 0.001)
		})
	}
}

func TestNormalizeToScore_Descending(t *testing.T) {
	// Lower is better, e.g. a valuation multiple.
	th := Thresholds{Poor: 4, Average: 3, Good: 2, Excellent: 1}

	assert.InDelta(t, 100, NormalizeToScore(0.5, th), 0.001)
	assert.InDelta(t, 100, NormalizeToScore(1, th), 0.001)
	assert.InDelta(t, 62.5, NormalizeToScore(2.5, th), 0.001)
	assert.InDelta(t, 50, NormalizeToScore(3, th), 0.001)
	assert.InDelta(t, 25, NormalizeToScore(4, th), 0.001)
	assert.InDelta(t, 0, NormalizeToScore(5, th), 0.001)
	assert.InDelta(t, 0, NormalizeToScore(50, th), 0.001)
}

func TestNormalizeToScore_CollapsedBands(t *testing.T) {
	th := Thresholds{Poor: 5, Average: 5, Good: 5, Excellent: 5}
	assert.Equal(t, 100.0, NormalizeToScore(5, th))
	assert.Equal(t, 100.0, NormalizeToScore(6, th))
	assert.Equal(t, 50.0, NormalizeToScore(4, th))

	// Partially collapsed bands never divide by zero.
	partial := Thresholds{Poor: 0.1, Average: 0.1, Good: 0.3, Excellent: 0.4}
	got := NormalizeToScore(0.2, partial)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 62.5, got, 0.001)

	// Poor equal to average leaves no floor band: the bound itself takes the
	// average score and there is no drop to 0 beneath it.
	lowCollapsed := Thresholds{Poor: 0.1, Average: 0.1, Good: 0.2, Excellent: 0.3}
	assert.Equal(t, 50.0, NormalizeToScore(0.0999, lowCollapsed))
	assert.Equal(t, 50.0, NormalizeToScore(0.1, lowCollapsed))
	assert.InDelta(t, 50, NormalizeToScore(0.1000001, lowCollapsed), 0.001)
	assert.InDelta(t, 75, NormalizeToScore(0.2, lowCollapsed), 0.001)

	// Coincident upper bounds resolve to the higher score at the bound.
	topCollapsed := Thresholds{Poor: 0.1, Average: 0.2, Good: 0.3, Excellent: 0.3}
	assert.Equal(t, 100.0, NormalizeToScore(0.3, topCollapsed))
	assert.InDelta(t, 62.5, NormalizeToScore(0.25, topCollapsed), 0.001)

	midCollapsed := Thresholds{Poor: 0.1, Average: 0.2, Good: 0.2, Excellent: 0.4}
	assert.Equal(t, 75.0, NormalizeToScore(0.2, midCollapsed))
	assert.InDelta(t, 37.5, NormalizeToScore(0.15, midCollapsed), 0.001)

	prev := -1.0
	for v := 0.0; v <= 0.35; v += 0.001 {
		got := NormalizeToScore(v, lowCollapsed)
		assert.GreaterOrEqual(t, got, prev, "value %v", v)
		prev = got
	}
}

func TestNormalizeToScore_Monotone(t *testing.T) {
	th := Thresholds{Poor: 0.03, Average: 0.07, Good: 0.12, Excellent: 0.18}
	prev := -1.0
	for v := -0.2; v <= 0.4; v += 0.005 {
		got := NormalizeToScore(v, th)
		assert.GreaterOrEqual(t, got, prev, "value %v", v)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 100.0)
		prev = got
	}
}

func TestNormalizeToScore_NaN(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeToScore(math.NaN(), Thresholds{0, 1, 2, 3}))
	assert.Equal(t, 100.0, NormalizeToScore(math.Inf(1), Thresholds{0, 1, 2, 3}))
	assert.Equal(t, 0.0, NormalizeToScore(math.Inf(-1), Thresholds{0, 1, 2, 3}))
}

func TestSafeRatio(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	r, ok := safeRatio(f(10), f(4))
	assert.True(t, ok)
	assert.InDelta(t, 2.5, r, 0.0001)

	_, ok = safeRatio(f(10), f(0))
	assert.False(t, ok)
	_, ok = safeRatio(f(10), f(-5))
	assert.False(t, ok)
	_, ok = safeRatio(nil, f(5))
	assert.False(t, ok)
	_, ok = safeRatio(f(math.Inf(1)), f(5))
	assert.False(t, ok)
}

func TestBlend_Renormalizes(t *testing.T) {
	var b blend
	_, ok := b.value()
	assert.False(t, ok)
	assert.Equal(t, 40.0, b.valueOr(40))

	b.add(80, 0.4)
	b.add(math.NaN(), 0.3) // ignored
	b.addIf(50, false, 0.3)
	v, ok := b.value()
	assert.True(t, ok)
	assert.InDelta(t, 80, v, 0.0001)

	b.add(20, 0.4)
	v, _ = b.value()
	assert.InDelta(t, 50, v, 0.0001)
}

func TestStats(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.InDelta(t, 5, mean([]float64{2, 4, 6, 8}), 0.0001)
	assert.InDelta(t, 5, variance([]float64{2, 4, 6, 8}), 0.0001)
	assert.InDelta(t, math.Sqrt(5), stddev([]float64{2, 4, 6, 8}), 0.0001)

	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 10, yearsBetween(start, start.AddDate(10, 0, 0)), 0.01)
	assert.Less(t, yearsBetween(start.AddDate(1, 0, 0), start), 0.0)
}
