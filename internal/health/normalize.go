package health

import (
	"math"
	"time"
)

// Thresholds is a four-point benchmark scale. For metrics where lower is
// better, pass Excellent < Poor; NormalizeToScore detects the orientation.
type Thresholds struct {
	Poor      float64 `json:"poor" yaml:"poor"`
	Average   float64 `json:"average" yaml:"average"`
	Good      float64 `json:"good" yaml:"good"`
	Excellent float64 `json:"excellent" yaml:"excellent"`
}

// NormalizeToScore maps a raw ratio onto 0-100 using a monotone piecewise
// linear scale:
//
//	floor     -> 0   (floor = poor - (average - poor))
//	poor      -> 25
//	average   -> 50
//	good      -> 75
//	excellent -> 100 (saturates above)
//
// Collapsed bands never divide by zero: where bounds coincide, a value at
// or above the bound takes the highest score pinned there. When every bound
// is equal, or poor equals average so the floor band has no width, values
// below the bound score 50.
func NormalizeToScore(value float64, t Thresholds) float64 {
	if math.IsNaN(value) {
		return 0
	}
	if t.Excellent < t.Poor {
		value = -value
		t = Thresholds{Poor: -t.Poor, Average: -t.Average, Good: -t.Good, Excellent: -t.Excellent}
	}
	if value >= t.Excellent {
		return 100
	}

	floor := t.Poor - (t.Average - t.Poor)
	if floor == t.Poor && value < t.Poor {
		return 50
	}
	if value <= floor {
		return 0
	}

	knots := [...]struct{ x, y float64 }{
		{floor, 0},
		{t.Poor, 25},
		{t.Average, 50},
		{t.Good, 75},
		{t.Excellent, 100},
	}
	// Highest knot at or below value, so coincident knots resolve upward.
	for i := len(knots) - 2; i >= 0; i-- {
		lo := knots[i]
		if value < lo.x {
			continue
		}
		if value == lo.x {
			return lo.y
		}
		hi := knots[i+1]
		return clamp(lo.y+(value-lo.x)/(hi.x-lo.x)*(hi.y-lo.y), 0, 100)
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// safeRatio divides two reported values. ok is false when either is absent,
// the denominator is not positive or the result is not finite. Every
// denominator in the engine (revenue, assets, headcount) is a size.
func safeRatio(num, den *float64) (float64, bool) {
	if num == nil || den == nil || *den <= 0 {
		return 0, false
	}
	r := *num / *den
	if !finite(r) {
		return 0, false
	}
	return r, true
}

// blend accumulates weighted scores and renormalizes over whatever was
// actually added.
type blend struct {
	sum    float64
	weight float64
}

func (b *blend) add(score, weight float64) {
	if !finite(score) || weight <= 0 {
		return
	}
	b.sum += score * weight
	b.weight += weight
}

func (b *blend) addIf(score float64, ok bool, weight float64) {
	if ok {
		b.add(score, weight)
	}
}

func (b blend) value() (float64, bool) {
	if b.weight == 0 {
		return 0, false
	}
	return clamp(b.sum/b.weight, 0, 100), true
}

func (b blend) valueOr(def float64) float64 {
	if v, ok := b.value(); ok {
		return v
	}
	return def
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance is the population variance.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	return math.Sqrt(variance(values))
}

// yearsBetween returns the fractional number of years from start to end.
// Negative when start is after end.
func yearsBetween(start, end time.Time) float64 {
	return end.Sub(start).Hours() / (24 * 365.25)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
