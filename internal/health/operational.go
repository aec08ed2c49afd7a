package health

import (
	"fmt"
	"strings"
)

// Neutral operational sub-scores used when none of a sub-score's inputs
// were reported.
const (
	defaultMaturity    = 40
	defaultEfficiency  = 50
	defaultPositioning = 50
)

type operationalScorer struct {
	bench Benchmarks
	w     OperationalWeights
}

func (s operationalScorer) score(in input) ScoreBreakdown {
	fin, op := in.fin, in.op
	ind := s.bench.Industry(op.Category)
	out := newBreakdown()
	available := false

	// Maturity.
	var maturity blend
	if age, ok := in.age(); ok {
		sc := maturityForAge(age)
		if age < 0 {
			sc = 0
		}
		maturity.add(sc, s.w.Age)
		out.Components["age"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("In business for %.1f years", age))
	}
	if op.Employees != nil {
		sc := stabilityForEmployees(*op.Employees)
		maturity.add(sc, s.w.Employees)
		out.Components["employees"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Team of %d employees", *op.Employees))
	}

	// Efficiency.
	var efficiency blend
	if sc, ok := in.rules.hoursScore(op); ok {
		efficiency.add(sc, s.w.Hours)
		out.Components["hours"] = sc
		if _, n, ok := daysOpenScore(op.DaysOpen); ok {
			out.Factors = append(out.Factors, fmt.Sprintf("Open %d days a week", n))
		}
	}
	if sc, ok := in.rules.seasonalityScore(op); ok {
		efficiency.add(sc, s.w.Seasonality)
		out.Components["seasonality"] = sc
		if sc < 50 {
			out.Factors = append(out.Factors, "Revenue is exposed to seasonal swings")
		}
	}
	if op.CustomerBase != nil && *op.CustomerBase > 0 {
		n := float64(*op.CustomerBase)
		if rpc, ok := safeRatio(fin.Revenue, &n); ok {
			sc := NormalizeToScore(rpc, ind.RevenuePerCustomer)
			efficiency.add(sc, s.w.RevenuePerCustomer)
			out.Components["revenuePerCustomer"] = sc
			out.Factors = append(out.Factors, fmt.Sprintf("Revenue per customer of %s", money(rpc)))
		}
	}

	// Positioning.
	var positioning blend
	if sc, matched, ok := in.rules.competitionScore(op); ok {
		positioning.add(sc, s.w.Competition)
		out.Components["competition"] = sc
		if len(matched) > 0 {
			out.Factors = append(out.Factors, fmt.Sprintf("Competition described as: %s", strings.Join(matched, ", ")))
		}
	}
	if strings.TrimSpace(op.Description) != "" {
		sc, matched := in.rules.Differentiation.Evaluate(op.Description)
		positioning.add(sc, s.w.Differentiation)
		out.Components["differentiation"] = sc
		if len(matched) > 0 {
			out.Factors = append(out.Factors, fmt.Sprintf("Differentiators mentioned: %s", strings.Join(matched, ", ")))
		}
	}
	if sc, ok := presenceScore(in); ok {
		positioning.add(sc, s.w.Presence)
		out.Components["presence"] = sc
	}

	m, ok := maturity.value()
	available = available || ok
	if !ok {
		m = defaultMaturity
	}
	e, ok := efficiency.value()
	available = available || ok
	if !ok {
		e = defaultEfficiency
	}
	p, ok := positioning.value()
	available = available || ok
	if !ok {
		p = defaultPositioning
	}
	out.Components["businessMaturity"] = m
	out.Components["operationalEfficiency"] = e
	out.Components["marketPositioning"] = p

	if m < 50 {
		out.Recommendations = append(out.Recommendations,
			"Build operating history and a stable team before going to market")
	}
	if e < 50 {
		out.Recommendations = append(out.Recommendations,
			"Extend operating hours or smooth seasonal revenue")
	}
	if p < 50 {
		out.Recommendations = append(out.Recommendations,
			"Sharpen what sets the business apart from competitors")
	}

	// Fixed weights: every sub-score has a value, default or measured.
	out.Score = clamp(m*s.w.BusinessMaturity+e*s.w.OperationalEfficiency+p*s.w.MarketPositioning, 0, 100)
	out.Available = available
	if !available {
		out.Factors = append(out.Factors, "No operational details reported; neutral defaults applied")
	}
	return out
}
