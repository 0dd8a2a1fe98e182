package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/crimson-sun/stresscheck/internal/engine/classifier"
	"github.com/crimson-sun/stresscheck/internal/engine/normalizer"
	"github.com/crimson-sun/stresscheck/internal/engine/scaler"
	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/engine/vectorizer"
	"github.com/crimson-sun/stresscheck/internal/model"
)

// ErrNoClassifier is returned by Process when the engine was built without
// a classifier. Preprocess still works.
var ErrNoClassifier = errors.New("engine: no classifier configured")

// Engine orchestrates the normalize → vectorize → standardize → classify
// pipeline. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	schema     schema.Schema
	scaler     *scaler.Standardizer
	classifier classifier.Classifier
}

// New creates an Engine with the provided components. cls may be nil when
// only preprocessing is needed.
func New(s schema.Schema, st *scaler.Standardizer, cls classifier.Classifier) (*Engine, error) {
	if st == nil {
		return nil, errors.New("engine: standardizer is required")
	}
	if st.Len() != s.Len() {
		return nil, fmt.Errorf("engine: standardizer expects %d features, schema has %d", st.Len(), s.Len())
	}
	return &Engine{schema: s, scaler: st, classifier: cls}, nil
}

// NewDefault builds an Engine on the built-in schema and scaling table.
func NewDefault(cls classifier.Classifier) (*Engine, error) {
	s := schema.Default()
	st, err := scaler.New(s, schema.DefaultScaling())
	if err != nil {
		return nil, err
	}
	return New(s, st, cls)
}

// HasClassifier reports whether Process can score answers.
func (e *Engine) HasClassifier() bool { return e.classifier != nil }

// Schema returns the feature order the engine vectorizes in.
func (e *Engine) Schema() schema.Schema { return e.schema }

// Preprocess runs every stage before classification and returns them all.
func (e *Engine) Preprocess(raw model.RawAnswers) (model.Trace, error) {
	rec := normalizer.Normalize(raw)
	vec := vectorizer.Vectorize(e.schema, rec)
	scaled, err := e.scaler.Transform(vec)
	if err != nil {
		return model.Trace{}, err
	}
	slog.Debug("preprocessed answers", "fields", raw.Fields(), "vector", vec)
	return model.Trace{Normalized: rec, Vector: vec, Scaled: scaled}, nil
}

// Classify scores an already preprocessed trace.
func (e *Engine) Classify(ctx context.Context, tr model.Trace) (model.Verdict, error) {
	if e.classifier == nil {
		return model.Verdict{}, ErrNoClassifier
	}
	class, err := e.classifier.Predict(ctx, tr.Scaled)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("engine: predict: %w", err)
	}
	proba, err := e.classifier.PredictProba(ctx, tr.Scaled)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("engine: predict proba: %w", err)
	}
	if len(proba) != classifier.NumClasses {
		return model.Verdict{}, fmt.Errorf("%w: got %d probabilities", classifier.ErrMalformedOutput, len(proba))
	}

	v := model.Verdict{
		Class: class,
		Label: classifier.Label(class),
		Probabilities: model.Probabilities{
			Low:    percent(proba[0]),
			Medium: percent(proba[1]),
			High:   percent(proba[2]),
		},
	}
	slog.Debug("classified answers", "class", v.Class, "label", v.Label)
	return v, nil
}

// Process preprocesses and classifies a single answer set.
func (e *Engine) Process(ctx context.Context, raw model.RawAnswers) (model.Verdict, error) {
	tr, err := e.Preprocess(raw)
	if err != nil {
		return model.Verdict{}, err
	}
	return e.Classify(ctx, tr)
}

// ProcessBatch classifies a slice of answer sets, stopping at the first error.
func (e *Engine) ProcessBatch(ctx context.Context, raws []model.RawAnswers) ([]model.Verdict, error) {
	verdicts := make([]model.Verdict, 0, len(raws))
	for i, raw := range raws {
		v, err := e.Process(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("engine: record %d: %w", i, err)
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// Close releases the classifier.
func (e *Engine) Close() error {
	if e.classifier == nil {
		return nil
	}
	return e.classifier.Close()
}

// percent converts a probability to a percentage rounded to 2 decimals.
func percent(p float64) float64 {
	return math.Round(p*100*100) / 100
}
