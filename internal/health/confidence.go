package health

import (
	"fmt"
	"math"
	"strings"
)

// fieldSpec names a field and reports whether it is present.
type fieldSpec struct {
	name    string
	present bool
}

type completenessList struct {
	dimension string
	fields    []fieldSpec
	critical  []string
}

type confidenceAssessor struct {
	bench Benchmarks
	w     ConfidenceWeights
}

func (a confidenceAssessor) assess(in input, bd Breakdown) ConfidenceAssessment {
	var factors []string

	completeness, f := a.completeness(in)
	factors = append(factors, f...)
	quality, f := a.quality(in)
	factors = append(factors, f...)
	consistency, f := consistencyScore(bd)
	factors = append(factors, f...)

	overall := clamp(completeness*a.w.Completeness+quality*a.w.Quality+consistency*a.w.Consistency, 0, 100)
	switch {
	case overall >= 80:
		factors = append(factors, "Very high confidence in this assessment")
	case overall >= 65:
		factors = append(factors, "High confidence in this assessment")
	case overall >= 45:
		factors = append(factors, "Medium confidence; some figures are missing or unverified")
	default:
		factors = append(factors, "Low confidence; treat these scores as indicative only")
	}

	return ConfidenceAssessment{
		Overall:          overall,
		DataCompleteness: completeness,
		DataQuality:      quality,
		Consistency:      consistency,
		Factors:          factors,
	}
}

func completenessLists(fin FinancialData, op OperationalData) []completenessList {
	has := func(v *float64) bool { return v != nil }
	established := op.Established != nil
	employees := op.Employees != nil
	customers := op.CustomerBase != nil
	return []completenessList{
		{
			dimension: DimensionFinancial,
			fields: []fieldSpec{
				{"revenue", has(fin.Revenue)}, {"profit", has(fin.Profit)},
				{"cashFlow", has(fin.CashFlow)}, {"ebitda", has(fin.EBITDA)},
				{"grossMargin", has(fin.GrossMargin)}, {"netMargin", has(fin.NetMargin)},
				{"totalAssets", has(fin.TotalAssets)}, {"liabilities", has(fin.Liabilities)},
			},
			critical: []string{"revenue", "profit"},
		},
		{
			dimension: DimensionGrowth,
			fields: []fieldSpec{
				{"yearlyGrowth", has(fin.YearlyGrowth)}, {"monthlyRevenue", has(fin.MonthlyRevenue)},
				{"revenue", has(fin.Revenue)}, {"customerBase", customers},
				{"competition", op.Competition != ""}, {"established", established},
				{"employees", employees},
			},
			critical: []string{"yearlyGrowth", "revenue"},
		},
		{
			dimension: DimensionOperational,
			fields: []fieldSpec{
				{"established", established}, {"employees", employees},
				{"customerBase", customers}, {"hoursOfOperation", op.HoursOfOperation != ""},
				{"daysOpen", len(op.DaysOpen) > 0}, {"seasonality", op.Seasonality != ""},
				{"competition", op.Competition != ""}, {"description", op.Description != ""},
			},
			critical: []string{"established", "employees"},
		},
		{
			dimension: DimensionSaleReadiness,
			fields: []fieldSpec{
				{"askingPrice", has(fin.AskingPrice)}, {"revenue", has(fin.Revenue)},
				{"profit", has(fin.Profit)}, {"ebitda", has(fin.EBITDA)},
				{"inventory", has(fin.Inventory)}, {"equipment", has(fin.Equipment)},
				{"realEstate", has(fin.RealEstate)}, {"description", op.Description != ""},
			},
			critical: []string{"askingPrice", "revenue"},
		},
	}
}

// completeness blends the mean per-dimension field ratio (70%) with the
// share of critical fields present (30%).
func (a confidenceAssessor) completeness(in input) (float64, []string) {
	var ratios []float64
	var criticalTotal, criticalPresent int
	var missing []string
	seen := map[string]bool{}

	for _, list := range completenessLists(in.fin, in.op) {
		present := map[string]bool{}
		n := 0
		for _, f := range list.fields {
			present[f.name] = f.present
			if f.present {
				n++
			}
		}
		ratios = append(ratios, float64(n)/float64(len(list.fields)))
		for _, c := range list.critical {
			criticalTotal++
			if present[c] {
				criticalPresent++
			} else if !seen[c] {
				seen[c] = true
				missing = append(missing, c)
			}
		}
	}

	critical := float64(criticalPresent) / float64(criticalTotal)
	score := clamp((0.7*mean(ratios)+0.3*critical)*100, 0, 100)

	factors := []string{fmt.Sprintf("Data completeness is %s", pct(score/100))}
	if len(missing) > 0 {
		factors = append(factors, fmt.Sprintf("Missing critical fields: %s", strings.Join(missing, ", ")))
	}
	return score, factors
}

// quality penalizes contradictions and benchmark outliers, then averages
// with the plausibility of the business age.
func (a confidenceAssessor) quality(in input) (float64, []string) {
	fin, op := in.fin, in.op
	var factors []string
	var issues []string
	marginIssue := false

	flag := func(msg string, margin bool) {
		issues = append(issues, msg)
		if margin {
			marginIssue = true
		}
	}

	if fin.Profit != nil && fin.Revenue != nil && *fin.Revenue > 0 && *fin.Profit > *fin.Revenue {
		flag("profit exceeds revenue", true)
	}
	for _, m := range []struct {
		name string
		v    *float64
	}{{"gross margin", fin.GrossMargin}, {"net margin", fin.NetMargin}} {
		if m.v != nil && (*m.v > 1 || *m.v < -1 || !finite(*m.v)) {
			flag(m.name+" outside -100% to 100%", true)
		}
	}
	if fin.GrossMargin != nil && fin.NetMargin != nil && *fin.NetMargin > *fin.GrossMargin {
		flag("net margin exceeds gross margin", true)
	}
	if fin.NetMargin != nil {
		if implied, ok := safeRatio(fin.Profit, fin.Revenue); ok && math.Abs(implied-*fin.NetMargin) > 0.05 {
			flag("reported net margin disagrees with profit/revenue", true)
		}
	}
	if fin.EBITDA != nil && fin.Revenue != nil && *fin.Revenue > 0 && *fin.EBITDA > *fin.Revenue {
		flag("EBITDA exceeds revenue", false)
	}
	if fin.CashFlow != nil && fin.Revenue != nil && *fin.Revenue > 0 && *fin.CashFlow > *fin.Revenue {
		flag("cash flow exceeds revenue", false)
	}
	if c, ok := revenueConsistency(fin); ok && c < 0.5 {
		flag("monthly revenue does not match annual revenue", false)
	}
	for _, v := range []struct {
		name string
		v    *float64
	}{
		{"revenue", fin.Revenue}, {"monthly revenue", fin.MonthlyRevenue},
		{"asking price", fin.AskingPrice}, {"total assets", fin.TotalAssets},
		{"liabilities", fin.Liabilities}, {"inventory", fin.Inventory},
		{"equipment", fin.Equipment}, {"real estate", fin.RealEstate},
	} {
		if v.v != nil && *v.v < 0 {
			flag("negative "+v.name, false)
		}
	}
	if op.Employees != nil && *op.Employees < 0 {
		flag("negative employee count", false)
	}
	if op.CustomerBase != nil && *op.CustomerBase < 0 {
		flag("negative customer base", false)
	}

	outliers := a.outliers(in)

	data := 85.0
	if n := len(issues); n > 0 {
		data -= math.Min(80, 25*float64(n))
		if marginIssue {
			data -= 30
		}
		if n >= 3 {
			data -= 15
		}
		factors = append(factors, fmt.Sprintf("Data inconsistencies: %s", strings.Join(issues, "; ")))
	}
	if len(outliers) > 0 {
		data -= math.Min(25, 10*float64(len(outliers)))
		factors = append(factors, fmt.Sprintf("Unusual values for the category: %s", strings.Join(outliers, ", ")))
	}
	data = math.Max(0, data)

	if nm, ok := netMargin(fin); ok && nm >= 0 && nm < 0.10 {
		factors = append(factors, fmt.Sprintf("Thin net margin of %s leaves little room for error", pct(nm)))
	}

	ageScore, ageFactor := agePlausibility(in)
	if ageFactor != "" {
		factors = append(factors, ageFactor)
	}

	quality := clamp((data+ageScore)/2, 0, 100)
	factors = append(factors, fmt.Sprintf("Data quality is %s", pct(quality/100)))
	return quality, factors
}

// outliers lists metrics far outside the category's benchmark range.
func (a confidenceAssessor) outliers(in input) []string {
	ind := a.bench.Industry(in.op.Category)
	var out []string
	far := func(v float64, t Thresholds) bool {
		lo, hi := math.Min(t.Poor, t.Excellent), math.Max(t.Poor, t.Excellent)
		span := hi - lo
		return v > hi+2*span || v < lo-2*span
	}
	if in.fin.GrossMargin != nil && far(*in.fin.GrossMargin, ind.GrossMargin) {
		out = append(out, "gross margin")
	}
	if nm, ok := netMargin(in.fin); ok && far(nm, ind.NetMargin) {
		out = append(out, "net margin")
	}
	if rpe, ok := revenuePerEmployee(in.fin, in.op); ok && far(rpe, ind.RevenuePerEmployee) {
		out = append(out, "revenue per employee")
	}
	if g := in.fin.YearlyGrowth; g != nil && (*g > 1.0 || *g < -0.5) {
		out = append(out, "yearly growth")
	}
	return out
}

func agePlausibility(in input) (float64, string) {
	age, ok := in.age()
	switch {
	case !ok:
		return 50, "Establishment date unknown"
	case age < 0:
		return 10, "Establishment date is in the future"
	case age > 100:
		return 20, "Establishment date is more than 100 years ago"
	case age < 1:
		return 70, "Business is less than a year old; history is limited"
	default:
		return 95, ""
	}
}

// consistencyScore measures agreement between the available dimension
// scores.
func consistencyScore(bd Breakdown) (float64, []string) {
	scores := availableScores(bd)
	if len(scores) < 2 {
		return 70, []string{"Too few dimensions scored to judge consistency"}
	}
	sd := stddev(scores)
	var score float64
	switch {
	case sd <= 10:
		score = 95
	case sd <= 20:
		score = 85
	case sd <= 30:
		score = 70
	default:
		score = 50
	}
	return score, []string{fmt.Sprintf("Dimension scores spread by %.1f points", sd)}
}

func availableScores(bd Breakdown) []float64 {
	var scores []float64
	for _, d := range Dimensions {
		b, _ := bd.Get(d)
		if b.Available {
			scores = append(scores, b.Score)
		}
	}
	return scores
}
