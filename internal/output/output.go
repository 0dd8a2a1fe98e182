// Package output defines batch report destinations.
package output

import (
	"context"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// Report is the batch result for one input record.
type Report struct {
	Line       int            `json:"line"`
	ID         string         `json:"id,omitempty"`
	Prediction *model.Verdict `json:"prediction,omitempty"`
	Trace      *model.Trace   `json:"trace,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Output defines the interface for report destinations.
type Output interface {
	Write(ctx context.Context, r Report) error
	Close() error
}
