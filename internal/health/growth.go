package health

import (
	"fmt"
	"math"
	"strings"
)

type growthScorer struct {
	bench Benchmarks
	w     GrowthWeights
}

func (s growthScorer) score(in input) ScoreBreakdown {
	fin, op := in.fin, in.op
	ind := s.bench.Industry(op.Category)
	age, ageOK := in.age()
	bracket := AgeBracket(age, ageOK)
	out := newBreakdown()

	// Revenue growth.
	var revenue blend
	if fin.YearlyGrowth != nil && finite(*fin.YearlyGrowth) {
		g := *fin.YearlyGrowth
		sc := NormalizeToScore(g, s.bench.GrowthFor(bracket))
		revenue.add(sc, s.w.GrowthRate)
		out.Components["growthRate"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Yearly growth of %s is %s for a %s business", pct(g), band(sc), bracket))
		if g < 0 {
			out.Recommendations = append(out.Recommendations,
				"Investigate the revenue decline and rebuild the sales pipeline")
		}
	}
	if c, ok := revenueConsistency(fin); ok {
		sc := NormalizeToScore(c, s.bench.RevenueConsistency)
		revenue.add(sc, s.w.Consistency)
		out.Components["revenueConsistency"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Monthly revenue is %s consistent with annual revenue", pct(c)))
	}

	// Market expansion.
	var market blend
	if op.Category != "" {
		market.add(ind.GrowthPotential, s.w.CategoryPotential)
		out.Components["categoryPotential"] = ind.GrowthPotential
		out.Factors = append(out.Factors, fmt.Sprintf("The %s sector has %s growth potential",
			op.Category.Label(), band(ind.GrowthPotential)))
	}
	if op.CustomerBase != nil && *op.CustomerBase >= 0 && ind.ExpectedCustomers > 0 {
		expected := ind.ExpectedCustomers
		if ageOK {
			expected *= clamp(age/5, 0.2, 1)
		}
		ratio := float64(*op.CustomerBase) / expected
		sc := NormalizeToScore(ratio, s.bench.CustomerBaseRatio)
		market.add(sc, s.w.CustomerBase)
		out.Components["customerBase"] = sc
		out.Factors = append(out.Factors, fmt.Sprintf("Customer base of %s against roughly %s expected",
			num(float64(*op.CustomerBase)), num(expected)))
	}
	if sc, matched, ok := in.rules.competitionScore(op); ok {
		market.add(sc, s.w.Competition)
		out.Components["competition"] = sc
		if len(matched) > 0 {
			out.Factors = append(out.Factors, fmt.Sprintf("Competitive landscape signals: %s", strings.Join(matched, ", ")))
		}
	}

	// Scalability.
	var scale blend
	if rpe, ok := revenuePerEmployee(fin, op); ok {
		sc := NormalizeToScore(rpe, ind.ScalabilityPerEmp)
		scale.add(sc, s.w.RevenuePerEmployee)
		out.Components["revenuePerEmployee"] = sc
	}
	if sc, ok := in.rules.flexibilityScore(op); ok {
		scale.add(sc, s.w.Flexibility)
		out.Components["flexibility"] = sc
	}
	if at, ok := safeRatio(fin.Revenue, fin.TotalAssets); ok {
		sc := NormalizeToScore(at, s.bench.AssetTurnover)
		scale.add(sc, s.w.AssetEfficiency)
		out.Components["assetEfficiency"] = sc
	}

	var total blend
	if v, ok := revenue.value(); ok {
		total.add(v, s.w.RevenueGrowth)
		out.Components["revenueGrowth"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Develop new revenue streams to accelerate growth")
		}
	}
	if v, ok := market.value(); ok {
		total.add(v, s.w.MarketExpansion)
		out.Components["marketExpansion"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Broaden the customer base or differentiate from competitors")
		}
	}
	if v, ok := scale.value(); ok {
		total.add(v, s.w.Scalability)
		out.Components["scalability"] = v
		if v < 50 {
			out.Recommendations = append(out.Recommendations,
				"Document processes and automate to scale without adding headcount")
		}
	}

	v, ok := total.value()
	if !ok {
		out.Factors = append(out.Factors, "Insufficient data to assess growth")
		out.Recommendations = append(out.Recommendations,
			"Report yearly growth and customer numbers to enable a growth assessment")
		return out
	}
	out.Score = v
	out.Available = true
	return out
}

// revenueConsistency is 1 - |monthly*12 - annual| / annual.
func revenueConsistency(fin FinancialData) (float64, bool) {
	if fin.MonthlyRevenue == nil || fin.Revenue == nil {
		return 0, false
	}
	gap := math.Abs(*fin.MonthlyRevenue*12 - *fin.Revenue)
	r, ok := safeRatio(&gap, fin.Revenue)
	if !ok {
		return 0, false
	}
	return 1 - r, true
}
