// Package classifiertest provides a scripted Classifier for tests.
package classifiertest

import (
	"context"
	"sync"
)

// Fake returns fixed answers and records the vectors it was given.
type Fake struct {
	Class int
	Proba []float64
	Err   error

	mu     sync.Mutex
	seen   [][]float64
	closed bool
}

// New returns a Fake answering class with probabilities proba.
func New(class int, proba ...float64) *Fake {
	return &Fake{Class: class, Proba: proba}
}

func (f *Fake) record(vec []float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, append([]float64(nil), vec...))
}

// Predict implements classifier.Classifier.
func (f *Fake) Predict(ctx context.Context, vec []float64) (int, error) {
	f.record(vec)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Class, nil
}

// PredictProba implements classifier.Classifier.
func (f *Fake) PredictProba(ctx context.Context, vec []float64) ([]float64, error) {
	f.record(vec)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]float64(nil), f.Proba...), nil
}

// Close implements classifier.Classifier.
func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Seen returns copies of every vector passed to Predict or PredictProba.
func (f *Fake) Seen() [][]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]float64, len(f.seen))
	copy(out, f.seen)
	return out
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
