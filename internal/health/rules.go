package health

import (
	"strings"
	"unicode"
)

// MatchMode controls how a RuleSet combines matching rules.
type MatchMode int

const (
	// Cumulative adds the delta of every matching rule to Base. A matched
	// phrase is consumed, so a later, shorter pattern contained in it does
	// not match again.
	Cumulative MatchMode = iota
	// FirstMatch returns the Value of the first matching rule, or Base.
	FirstMatch
)

// Rule is one keyword pattern. Value is a delta in Cumulative mode and an
// absolute score in FirstMatch mode.
type Rule struct {
	Pattern string  `json:"pattern" yaml:"pattern"`
	Value   float64 `json:"value" yaml:"value"`
}

// RuleSet is an ordered keyword heuristic over free text. Patterns match
// whole words, case-insensitively, with punctuation treated as a word
// break; the last word of a pattern also matches its plural. A phrase
// directly preceded by a negation ("not saturated") does not match.
type RuleSet struct {
	Base  float64   `json:"base" yaml:"base"`
	Mode  MatchMode `json:"mode" yaml:"mode"`
	Rules []Rule    `json:"rules" yaml:"rules"`
}

var negations = map[string]bool{
	"not": true, "no": true, "non": true, "never": true, "without": true, "isn't": true, "isnt": true,
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func wordMatches(word, pattern string, last bool) bool {
	if word == pattern {
		return true
	}
	return last && (word == pattern+"s" || word == pattern+"es")
}

// find returns the start of the first unconsumed, non-negated occurrence
// of pattern in words, or -1.
func find(words, pattern []string, used []bool) int {
	if len(pattern) == 0 {
		return -1
	}
outer:
	for i := 0; i+len(pattern) <= len(words); i++ {
		for j, p := range pattern {
			if used[i+j] || !wordMatches(words[i+j], p, j == len(pattern)-1) {
				continue outer
			}
		}
		if i > 0 && negations[words[i-1]] {
			continue
		}
		return i
	}
	return -1
}

// Evaluate scores text and returns the patterns that fired, in rule order.
// Empty text scores Base with no matches.
func (rs RuleSet) Evaluate(text string) (float64, []string) {
	words := tokenize(text)
	if len(words) == 0 {
		return clamp(rs.Base, 0, 100), nil
	}
	used := make([]bool, len(words))

	var matched []string
	switch rs.Mode {
	case FirstMatch:
		for _, r := range rs.Rules {
			if find(words, tokenize(r.Pattern), used) >= 0 {
				return clamp(r.Value, 0, 100), []string{r.Pattern}
			}
		}
		return clamp(rs.Base, 0, 100), nil
	default:
		score := rs.Base
		for _, r := range rs.Rules {
			pattern := tokenize(r.Pattern)
			found := false
			for at := find(words, pattern, used); at >= 0; at = find(words, pattern, used) {
				for j := range pattern {
					used[at+j] = true
				}
				found = true
			}
			if !found {
				continue
			}
			score += r.Value
			matched = append(matched, r.Pattern)
		}
		return clamp(score, 0, 100), matched
	}
}

// KeywordRules holds the free-text heuristics a Calculator applies.
type KeywordRules struct {
	Competition     RuleSet `json:"competition" yaml:"competition"`
	Differentiation RuleSet `json:"differentiation" yaml:"differentiation"`
	Presentation    RuleSet `json:"presentation" yaml:"presentation"`
	Hours           RuleSet `json:"hours" yaml:"hours"`
	Seasonality     RuleSet `json:"seasonality" yaml:"seasonality"`
}

// DefaultKeywordRules returns a fresh copy of the built-in rule sets.
func DefaultKeywordRules() KeywordRules {
	return KeywordRules{
		Competition:     competitionRules(),
		Differentiation: differentiationRules(),
		Presentation:    presentationRules(),
		Hours:           hoursRules(),
		Seasonality:     seasonalityRules(),
	}
}

// competitionRules score the free-text competition field. Saturation and
// intensity lower the score, exclusivity raises it.
func competitionRules() RuleSet {
	return RuleSet{
		Base: 60,
		Mode: Cumulative,
		Rules: []Rule{
			{"no direct competitor", 25},
			{"no competition", 25},
			{"highly competitive", -20},
			{"very competitive", -20},
			{"limited competition", 15},
			{"low competition", 15},
			{"high competition", -15},
			{"many competitors", -15},
			{"few competitors", 10},
			{"price war", -15},
			{"barriers to entry", 10},
			{"first mover", 10},
			{"saturated", -25},
			{"intense", -20},
			{"crowded", -15},
			{"competitive", -10},
			{"moderate", 0},
			{"exclusive", 25},
			{"unique", 20},
			{"niche", 15},
			{"proprietary", 15},
			{"patent", 15},
		},
	}
}

// differentiationRules score a listing description for market positioning.
func differentiationRules() RuleSet {
	return RuleSet{
		Base: 50,
		Mode: Cumulative,
		Rules: []Rule{
			{"recurring revenue", 15},
			{"long-term contract", 10},
			{"loyal customer", 10},
			{"repeat customer", 10},
			{"proprietary", 15},
			{"patent", 15},
			{"unique", 15},
			{"exclusive", 10},
			{"award", 10},
			{"subscription", 10},
			{"contract", 5},
			{"brand", 5},
			{"reputation", 5},
			{"established", 5},
			{"generic", -10},
			{"struggling", -20},
			{"declining", -15},
			{"needs work", -10},
		},
	}
}

// presentationRules score how a description sells the business to a buyer.
func presentationRules() RuleSet {
	return RuleSet{
		Base: 40,
		Mode: Cumulative,
		Rules: []Rule{
			{"motivated seller", -5},
			{"must sell", -10},
			{"as is", -15},
			{"urgent", -10},
			{"trained staff", 5},
			{"turnkey", 5},
			{"profitable", 10},
			{"recurring", 5},
			{"growth", 5},
			{"opportunity", 5},
			{"established", 5},
			{"systems", 5},
		},
	}
}

// hoursRules adjust the operating-hours heuristic.
func hoursRules() RuleSet {
	return RuleSet{
		Base: 60,
		Mode: Cumulative,
		Rules: []Rule{
			{"24/7", 25},
			{"24 hours", 20},
			{"by appointment", -10},
			{"online", 10},
			{"flexible", 10},
			{"evenings", 5},
			{"weekends", 5},
			{"limited", -10},
			{"seasonal", -10},
			{"closed", -5},
		},
	}
}

// seasonalityRules map a seasonality description to a stability score.
// Order matters: negated and qualified phrases precede bare "seasonal".
func seasonalityRules() RuleSet {
	return RuleSet{
		Base: 55,
		Mode: FirstMatch,
		Rules: []Rule{
			{"non-seasonal", 85},
			{"not seasonal", 85},
			{"no seasonality", 85},
			{"year-round", 85},
			{"stable", 85},
			{"none", 85},
			{"consistent", 80},
			{"mild", 75},
			{"minimal", 75},
			{"slight", 75},
			{"moderate", 60},
			{"highly seasonal", 35},
			{"very seasonal", 35},
			{"summer only", 35},
			{"winter only", 35},
			{"tourist", 45},
			{"holiday", 50},
			{"seasonal", 45},
		},
	}
}
