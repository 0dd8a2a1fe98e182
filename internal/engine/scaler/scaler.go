// Package scaler standardizes feature vectors with fixed per-feature
// statistics.
package scaler

import (
	"errors"
	"fmt"

	"github.com/crimson-sun/stresscheck/internal/engine/schema"
)

// ErrDimension is returned when a vector's length differs from the schema.
var ErrDimension = errors.New("scaler: vector length does not match schema")

// Standardizer applies (x - mean) / std in schema order. A zero std is
// treated as 1. It is immutable and safe for concurrent use.
type Standardizer struct {
	means    []float64
	divisors []float64
}

// New builds a Standardizer after checking sc covers exactly the features of s.
func New(s schema.Schema, sc schema.Scaling) (*Standardizer, error) {
	if err := sc.Validate(s); err != nil {
		return nil, err
	}
	st := &Standardizer{
		means:    make([]float64, s.Len()),
		divisors: make([]float64, s.Len()),
	}
	for i, name := range s.Names() {
		stats := sc[name]
		st.means[i] = stats.Mean
		st.divisors[i] = stats.Divisor()
	}
	return st, nil
}

// Len returns the expected vector length.
func (st *Standardizer) Len() int { return len(st.means) }

// Transform returns the standardized copy of vec.
func (st *Standardizer) Transform(vec []float64) ([]float64, error) {
	if err := st.check(vec); err != nil {
		return nil, err
	}
	out := make([]float64, len(vec))
	for i, x := range vec {
		out[i] = (x - st.means[i]) / st.divisors[i]
	}
	return out, nil
}

// Inverse maps a standardized vector back to feature units.
func (st *Standardizer) Inverse(scaled []float64) ([]float64, error) {
	if err := st.check(scaled); err != nil {
		return nil, err
	}
	out := make([]float64, len(scaled))
	for i, z := range scaled {
		out[i] = z*st.divisors[i] + st.means[i]
	}
	return out, nil
}

func (st *Standardizer) check(vec []float64) error {
	if len(vec) != len(st.means) {
		return fmt.Errorf("%w: got %d, want %d", ErrDimension, len(vec), len(st.means))
	}
	return nil
}
