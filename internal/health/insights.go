package health

import (
	"fmt"
	"strings"
)

var dimensionLabels = map[string]string{
	DimensionFinancial:     "Financial health",
	DimensionGrowth:        "Growth",
	DimensionOperational:   "Operations",
	DimensionSaleReadiness: "Sale readiness",
}

// GenerateInsights digests a Result using the default thresholds.
func GenerateInsights(r *Result) Insights {
	return GenerateInsightsWith(r, DefaultWeights())
}

// GenerateInsightsWith digests a Result using the strength, weakness and
// recommendation limits in w.
func GenerateInsightsWith(r *Result, w Weights) Insights {
	out := Insights{
		KeyStrengths:    []string{},
		KeyWeaknesses:   []string{},
		Recommendations: []string{},
	}
	if r == nil {
		out.Summary = "No health assessment available."
		return out
	}

	out.Summary = summary(r.Scores)

	for _, d := range Dimensions {
		sb, _ := r.Breakdown.Get(d)
		if !sb.Available {
			continue
		}
		label := dimensionLabels[d]
		switch {
		case sb.Score >= w.StrengthThreshold:
			out.KeyStrengths = append(out.KeyStrengths, fmt.Sprintf("%s scores %d/100", label, roundScore(sb.Score)))
		case sb.Score < w.WeaknessThreshold:
			out.KeyWeaknesses = append(out.KeyWeaknesses, fmt.Sprintf("%s scores %d/100", label, roundScore(sb.Score)))
		}
	}

	seen := map[string]bool{}
	addRec := func(rec string) {
		if rec == "" || seen[rec] {
			return
		}
		seen[rec] = true
		out.Recommendations = append(out.Recommendations, rec)
	}
	for _, d := range Dimensions {
		sb, _ := r.Breakdown.Get(d)
		for _, rec := range sb.Recommendations {
			addRec(rec)
		}
	}
	if r.Confidence.DataCompleteness < 60 {
		addRec("Complete the missing business information to improve assessment accuracy")
	}
	if r.Confidence.DataQuality < 60 {
		addRec("Review the reported financials for inconsistencies")
	}

	if limit := w.MaxRecommendations; limit > 0 && len(out.Recommendations) > limit {
		out.Recommendations = out.Recommendations[:limit]
	}
	return out
}

func summary(s HealthScores) string {
	var state string
	switch {
	case s.Overall >= 80:
		state = "excellent"
	case s.Overall >= 65:
		state = "good"
	case s.Overall >= 50:
		state = "fair"
	case s.Overall >= 35:
		state = "below average"
	default:
		state = "poor"
	}
	return fmt.Sprintf("Business is in %s health (%d/100) with a %s trajectory.",
		state, s.Overall, strings.ToLower(string(s.Trajectory)))
}
