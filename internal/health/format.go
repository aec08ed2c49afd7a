package health

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Factor text is English with locale grouping ("$425,000", "12.5%").

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

func pct(fraction float64) string {
	return printer().Sprintf("%.1f%%", fraction*100)
}

func money(v float64) string {
	if v < 0 {
		return printer().Sprintf("-$%.0f", -v)
	}
	return printer().Sprintf("$%.0f", v)
}

func num(v float64) string {
	return printer().Sprintf("%.0f", v)
}

func multiple(v float64) string {
	return printer().Sprintf("%.2fx", v)
}

// band describes a 0-100 sub-score in words.
func band(score float64) string {
	switch {
	case score >= 80:
		return "excellent"
	case score >= 65:
		return "strong"
	case score >= 50:
		return "average"
	case score >= 35:
		return "below average"
	default:
		return "weak"
	}
}
