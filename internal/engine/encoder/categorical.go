// Package encoder maps single survey answers to canonical numeric codes.
//
// Every encoder is total: unrecognized, malformed, or absent input resolves
// to the encoder's documented default rather than an error.
package encoder

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// Defaults applied when an answer is absent or unrecognized.
const (
	DefaultAge               = 1 // 18-24
	DefaultGender            = 0 // Female
	DefaultCurrentStatus     = 0 // Neither
	DefaultTaskDifficulty    = 1 // Moderate
	DefaultWorkUnderPressure = 0 // Not stressed
	DefaultSocialQuality     = 1 // Medium / neutral
	DefaultHomeEnvironment   = 1 // Satisfied
	DefaultOverthinking      = 0 // Never
)

// fold trims and case-folds s for label comparison.
// cases.Caser is stateful, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// labelTable is an exact, case-insensitive label lookup with a fallback code.
type labelTable struct {
	codes map[string]int
	def   int
}

func newLabelTable(def int, codes map[string]int) labelTable {
	folded := make(map[string]int, len(codes))
	for label, code := range codes {
		folded[fold(label)] = code
	}
	return labelTable{codes: folded, def: def}
}

func (t labelTable) lookup(s string) (int, bool) {
	c, ok := t.codes[fold(s)]
	return c, ok
}

func (t labelTable) encode(v model.Value) int {
	s, ok := v.AsText()
	if !ok {
		return t.def
	}
	if c, ok := t.lookup(s); ok {
		return c
	}
	return t.def
}

var (
	ageLabels = newLabelTable(DefaultAge, map[string]int{
		"<18":   0,
		"18-24": 1,
		"25-35": 2,
		"36+":   3,
	})

	// Exact match only: "female" contains "male".
	genderLabels = newLabelTable(DefaultGender, map[string]int{
		"Female": 0,
		"Male":   1,
	})

	statusLabels = newLabelTable(DefaultCurrentStatus, map[string]int{
		"Neither":  0,
		"Student":  1,
		"Employed": 2,
		"Both":     3,
	})

	difficultyLabels = newLabelTable(DefaultTaskDifficulty, map[string]int{
		"Easy":     0,
		"Moderate": 1,
		"Medium":   1,
		"Hard":     2,
	})

	// Both the model's training vocabulary and the questionnaire's wording.
	pressureLabels = newLabelTable(DefaultWorkUnderPressure, map[string]int{
		"Not stressed":          0,
		"Not at all":            0,
		"Slightly stressed":     1,
		"Slightly overwhelmed":  1,
		"Highly stressed":       2,
		"Yes, very overwhelmed": 2,
	})

	// Exact match only: "dissatisfied" contains "satisfied".
	homeLabels = newLabelTable(DefaultHomeEnvironment, map[string]int{
		"Dissatisfied": 0,
		"Satisfied":    1,
	})

	overthinkingLabels = newLabelTable(DefaultOverthinking, map[string]int{
		"Never":         0,
		"Rarely":        1,
		"Often":         2,
		"Almost always": 3,
	})
)

// Age encodes an age bracket: <18=0, 18-24=1, 25-35=2, 36+=3.
// Numeric ages, including fully numeric text, are bucketed by threshold.
func Age(v model.Value) int {
	if n, ok := v.AsNumber(); ok {
		return ageBucket(n)
	}
	s, ok := v.AsText()
	if !ok {
		return DefaultAge
	}
	if c, ok := ageLabels.lookup(s); ok {
		return c
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return ageBucket(n)
	}
	return DefaultAge
}

func ageBucket(n float64) int {
	switch {
	case math.IsNaN(n):
		return DefaultAge
	case n < 18:
		return 0
	case n <= 24:
		return 1
	case n <= 35:
		return 2
	default:
		return 3
	}
}

// Gender encodes Female=0, Male=1.
func Gender(v model.Value) int { return genderLabels.encode(v) }

// CurrentStatus encodes Neither=0, Student=1, Employed=2, Both=3.
func CurrentStatus(v model.Value) int { return statusLabels.encode(v) }

// TaskDifficulty encodes Easy=0, Moderate=1, Hard=2.
func TaskDifficulty(v model.Value) int { return difficultyLabels.encode(v) }

// WorkUnderPressure encodes Not stressed=0, Slightly stressed=1, Highly stressed=2.
func WorkUnderPressure(v model.Value) int { return pressureLabels.encode(v) }

// HomeEnvironment encodes Dissatisfied=0, Satisfied=1.
func HomeEnvironment(v model.Value) int { return homeLabels.encode(v) }

// Overthinking encodes Never=0, Rarely=1, Often=2, Almost always=3.
func Overthinking(v model.Value) int { return overthinkingLabels.encode(v) }

var (
	lowQuality  = []string{"low", "negative", "draining"}
	highQuality = []string{"high", "positive", "supportive"}
)

// SocialQuality encodes interaction quality by keyword: low=0, high=2,
// anything else 1. Low keywords are checked first.
func SocialQuality(v model.Value) int {
	s, ok := v.AsText()
	if !ok {
		return DefaultSocialQuality
	}
	s = fold(s)
	if containsAny(s, lowQuality) {
		return 0
	}
	if containsAny(s, highQuality) {
		return 2
	}
	return DefaultSocialQuality
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// StressfulEvent is 1 only for the exact answer "Yes".
func StressfulEvent(v model.Value) int {
	if s, ok := v.AsText(); ok && s == "Yes" {
		return 1
	}
	return 0
}

// Selection returns the stressor labels chosen in v. Lists are used item by
// item; text is split on commas and semicolons. Pieces are trimmed.
func Selection(v model.Value) []string {
	var parts []string
	if list, ok := v.AsList(); ok {
		parts = list
	} else if s, ok := v.AsText(); ok {
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
