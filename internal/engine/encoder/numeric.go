package encoder

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// Saturation is returned for answers like "all day".
const Saturation = 10.0

// DefaultCommute is used for any commute answer outside the standard set.
const DefaultCommute = 45

var commuteMinutes = map[int]bool{15: true, 45: true, 60: true, 150: true}

var (
	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	rangeRe  = regexp.MustCompile(`\d+\s*[-~/]\s*\d+`)
	toWordRe = regexp.MustCompile(`\bto\b`)
)

// zeroAnswers are matched against the whole trimmed, lowercased answer.
var zeroAnswers = map[string]bool{
	"":       true,
	"none":   true,
	"zero":   true,
	"no":     true,
	"didn't": true,
	"didn’t": true,
	"didnt":  true,
	"n/a":    true,
}

var saturatingPhrases = []string{"all day", "most of the day"}

// ToNumeric converts a free-form quantity answer to a non-negative number.
//
// Numbers pass through, clamped at 0. Text is interpreted in order: a zero
// word yields 0; "all day" phrasing yields Saturation; otherwise the numbers
// embedded in the text are combined. Several numbers written as a range
// ("2-3", "2 to 3") average, other multiples ("1h calls, 1h chat") sum, a
// single number is returned as is, and no numbers yields 0.
func ToNumeric(v model.Value) float64 {
	switch v.Kind() {
	case model.KindNumber:
		n, _ := v.AsNumber()
		if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
			return 0
		}
		return n
	case model.KindBool:
		if b, _ := v.AsBool(); b {
			return 1
		}
		return 0
	case model.KindText:
		s, _ := v.AsText()
		return parseQuantity(s)
	default:
		return 0
	}
}

func parseQuantity(raw string) float64 {
	s := strings.ToLower(strings.TrimSpace(raw))
	if zeroAnswers[s] {
		return 0
	}
	if containsAny(s, saturatingPhrases) {
		return Saturation
	}

	matches := numberRe.FindAllString(s, -1)
	nums := make([]float64, 0, len(matches))
	for _, m := range matches {
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsInf(f, 0) {
			continue
		}
		nums = append(nums, f)
	}

	switch len(nums) {
	case 0:
		return 0
	case 1:
		return nums[0]
	}

	var sum float64
	for _, n := range nums {
		sum += n
	}
	if rangeRe.MatchString(s) || toWordRe.MatchString(s) {
		return sum / float64(len(nums))
	}
	return sum
}

// Count converts an answer to a whole count, truncating any fraction.
func Count(v model.Value) int {
	n := ToNumeric(v)
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// CommuteTime accepts only the standard minute values 15, 45, 60 and 150.
// Numbers are truncated toward zero first; text must be a base-10 integer.
// Anything else yields DefaultCommute.
func CommuteTime(v model.Value) int {
	var minutes int
	switch v.Kind() {
	case model.KindNumber:
		n, _ := v.AsNumber()
		if math.IsNaN(n) || math.Abs(n) > math.MaxInt32 {
			return DefaultCommute
		}
		minutes = int(n)
	case model.KindText:
		s, _ := v.AsText()
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return DefaultCommute
		}
		minutes = i
	default:
		return DefaultCommute
	}
	if commuteMinutes[minutes] {
		return minutes
	}
	return DefaultCommute
}
