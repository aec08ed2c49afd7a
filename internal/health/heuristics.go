package health

import (
	"strings"
	"time"
)

// input is the adapted snapshot plus the instant it is scored at and the
// keyword rules in effect.
type input struct {
	fin   FinancialData
	op    OperationalData
	now   time.Time
	rules KeywordRules
}

// age returns the business age in years. ok is false when the established
// date is unknown.
func (in input) age() (float64, bool) {
	if in.op.Established == nil || in.op.Established.IsZero() {
		return 0, false
	}
	return yearsBetween(*in.op.Established, in.now), true
}

// maturityForAge ramps from 20 for a first-year business to 95 at ten years.
func maturityForAge(age float64) float64 {
	switch {
	case age < 1:
		return 20
	case age < 3:
		return 40 + 10*age
	case age < 10:
		return 70 + 3*(age-3)
	default:
		return 95
	}
}

// stabilityForEmployees scores headcount as a proxy for operational depth.
func stabilityForEmployees(n int) float64 {
	switch {
	case n <= 0:
		return 20
	case n <= 2:
		return 35
	case n <= 5:
		return 50
	case n <= 10:
		return 65
	case n <= 25:
		return 75
	case n <= 50:
		return 85
	default:
		return 90
	}
}

var weekdays = map[string]string{
	"mon": "mon", "tue": "tue", "wed": "wed", "thu": "thu",
	"fri": "fri", "sat": "sat", "sun": "sun",
}

// daysOpenScore scores the number of distinct weekdays a business opens.
func daysOpenScore(days []string) (float64, int, bool) {
	seen := map[string]bool{}
	for _, d := range days {
		d = strings.ToLower(strings.TrimSpace(d))
		if len(d) < 3 {
			continue
		}
		if wd, ok := weekdays[d[:3]]; ok {
			seen[wd] = true
		}
	}
	n := len(seen)
	switch {
	case n == 0:
		return 0, 0, false
	case n <= 3:
		return 40, n, true
	case n <= 5:
		return 60, n, true
	case n == 6:
		return 75, n, true
	default:
		return 85, n, true
	}
}

// hoursScore combines the operating-hours text and the days-open count.
func (kr KeywordRules) hoursScore(op OperationalData) (float64, bool) {
	var b blend
	if strings.TrimSpace(op.HoursOfOperation) != "" {
		sc, _ := kr.Hours.Evaluate(op.HoursOfOperation)
		b.add(sc, 1)
	}
	if sc, _, ok := daysOpenScore(op.DaysOpen); ok {
		b.add(sc, 1)
	}
	return b.value()
}

func (kr KeywordRules) seasonalityScore(op OperationalData) (float64, bool) {
	if strings.TrimSpace(op.Seasonality) == "" {
		return 0, false
	}
	sc, _ := kr.Seasonality.Evaluate(op.Seasonality)
	return sc, true
}

// flexibilityScore averages the hours and seasonality heuristics.
func (kr KeywordRules) flexibilityScore(op OperationalData) (float64, bool) {
	var b blend
	if sc, ok := kr.hoursScore(op); ok {
		b.add(sc, 1)
	}
	if sc, ok := kr.seasonalityScore(op); ok {
		b.add(sc, 1)
	}
	return b.value()
}

func (kr KeywordRules) competitionScore(op OperationalData) (float64, []string, bool) {
	if strings.TrimSpace(op.Competition) == "" {
		return 0, nil, false
	}
	sc, matched := kr.Competition.Evaluate(op.Competition)
	return sc, matched, true
}

func customerPresence(n int) float64 {
	switch {
	case n >= 1000:
		return 90
	case n >= 500:
		return 80
	case n >= 100:
		return 65
	case n >= 50:
		return 50
	case n >= 10:
		return 35
	default:
		return 20
	}
}

func agePresence(age float64) float64 {
	switch {
	case age >= 10:
		return 90
	case age >= 5:
		return 75
	case age >= 2:
		return 55
	default:
		return 35
	}
}

// presenceScore averages customer-base size and business age.
func presenceScore(in input) (float64, bool) {
	var b blend
	if in.op.CustomerBase != nil && *in.op.CustomerBase >= 0 {
		b.add(customerPresence(*in.op.CustomerBase), 1)
	}
	if age, ok := in.age(); ok && age >= 0 {
		b.add(agePresence(age), 1)
	}
	return b.value()
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// descriptionQuality scores how much a listing description says.
func descriptionQuality(desc string) float64 {
	n := wordCount(desc)
	switch {
	case n == 0:
		return 20
	case n < 10:
		return 35
	case n < 30:
		return 55
	case n < 80:
		return 75
	default:
		return 90
	}
}

// presentationScore scores how well a description sells the business.
func (kr KeywordRules) presentationScore(desc string) float64 {
	if strings.TrimSpace(desc) == "" {
		return 20
	}
	sc, _ := kr.Presentation.Evaluate(desc)
	switch n := wordCount(desc); {
	case n >= 100:
		sc += 25
	case n >= 50:
		sc += 20
	case n >= 20:
		sc += 10
	}
	return clamp(sc, 0, 100)
}
