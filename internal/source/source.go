// Package source streams answer sets into the batch pipeline.
package source

import (
	"context"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// Record is one input answer set. When Err is set the input could not be
// decoded and Answers is nil.
type Record struct {
	Line    int
	ID      string
	Answers model.RawAnswers
	Err     error
}

// Source produces records until its input is exhausted or ctx is cancelled,
// then closes the channel.
type Source interface {
	Stream(ctx context.Context) (<-chan Record, error)
}
