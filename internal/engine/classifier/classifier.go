// Package classifier defines the trained-model boundary of the pipeline and
// its backends: an in-process ONNX session and a remote model server.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// NumClasses is the number of stress levels the model distinguishes.
const NumClasses = 3

// Unknown is the label for any class outside 0..NumClasses-1.
const Unknown = "unknown"

var labels = [NumClasses]string{"low", "medium", "high"}

// ErrMalformedOutput is returned when a model answers with something other
// than a class index or NumClasses finite probabilities.
var ErrMalformedOutput = errors.New("classifier: malformed model output")

// Classifier scores one standardized feature vector. Implementations must be
// safe for concurrent use.
type Classifier interface {
	// Predict returns the class index for vec.
	Predict(ctx context.Context, vec []float64) (int, error)
	// PredictProba returns one probability per class, in class order.
	PredictProba(ctx context.Context, vec []float64) ([]float64, error)
	// Close releases backend resources.
	Close() error
}

// Label maps a class index to its name: 0 low, 1 medium, 2 high.
func Label(class int) string {
	if class < 0 || class >= NumClasses {
		return Unknown
	}
	return labels[class]
}

// Labels returns the class names in class order.
func Labels() []string {
	out := make([]string, NumClasses)
	copy(out, labels[:])
	return out
}

// checkProba verifies p holds NumClasses finite, non-negative values.
func checkProba(p []float64) error {
	if len(p) != NumClasses {
		return fmt.Errorf("%w: got %d probabilities, want %d", ErrMalformedOutput, len(p), NumClasses)
	}
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: probability %d is %v", ErrMalformedOutput, i, v)
		}
	}
	return nil
}
