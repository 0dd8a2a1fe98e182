package model

import "sort"

// RawAnswers is one respondent's answer set keyed by canonical field name.
// Missing keys are treated as absent answers.
type RawAnswers map[string]Value

// AnswersFromMap narrows every entry of a decoded JSON/YAML object.
func AnswersFromMap(m map[string]any) RawAnswers {
	out := make(RawAnswers, len(m))
	for k, v := range m {
		out[k] = ValueOf(v)
	}
	return out
}

// Get returns the answer for field, or Absent when it was not supplied.
func (a RawAnswers) Get(field string) Value {
	if a == nil {
		return Absent()
	}
	return a[field]
}

// Fields returns the supplied field names in sorted order.
func (a RawAnswers) Fields() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record is a normalized answer set: canonical feature name to numeric value.
type Record map[string]float64

// Get returns the value for feature and whether it is present.
func (r Record) Get(feature string) (float64, bool) {
	v, ok := r[feature]
	return v, ok
}
