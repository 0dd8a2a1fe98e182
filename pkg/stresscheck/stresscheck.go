package stresscheck

import (
	"context"
	"fmt"

	"github.com/crimson-sun/stresscheck/internal/engine"
	"github.com/crimson-sun/stresscheck/internal/engine/scaler"
	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/intake"
	"github.com/crimson-sun/stresscheck/internal/model"
)

// StressCheck scores survey answers. Safe for concurrent use.
type StressCheck struct {
	engine *engine.Engine
}

// New loads the standardization table and the classifier backend.
// Loading an ONNX model is comparatively expensive; create once and reuse.
func New(opts ...Option) (*StressCheck, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := schema.Default()
	sc := schema.DefaultScaling()
	if o.scalingPath != "" {
		var err error
		if sc, err = schema.LoadScaling(o.scalingPath); err != nil {
			return nil, fmt.Errorf("stresscheck: %w", err)
		}
	}
	st, err := scaler.New(s, sc)
	if err != nil {
		return nil, fmt.Errorf("stresscheck: %w", err)
	}

	cls, err := buildClassifier(o)
	if err != nil {
		return nil, fmt.Errorf("stresscheck: %w", err)
	}

	eng, err := engine.New(s, st, cls)
	if err != nil {
		cls.Close()
		return nil, fmt.Errorf("stresscheck: %w", err)
	}
	return &StressCheck{engine: eng}, nil
}

// Assess scores one answer set keyed by canonical field name.
func (c *StressCheck) Assess(answers map[string]any) (Assessment, error) {
	return c.AssessContext(context.Background(), answers)
}

// AssessContext is Assess with a caller-supplied context, which bounds
// remote model calls.
func (c *StressCheck) AssessContext(ctx context.Context, answers map[string]any) (Assessment, error) {
	v, err := c.engine.Process(ctx, model.AnswersFromMap(answers))
	if err != nil {
		return Assessment{}, err
	}
	return assessmentFromVerdict(v), nil
}

// AssessBatch scores several answer sets. It stops at the first failure.
func (c *StressCheck) AssessBatch(ctx context.Context, batch []map[string]any) ([]Assessment, error) {
	raws := make([]model.RawAnswers, len(batch))
	for i, answers := range batch {
		raws[i] = model.AnswersFromMap(answers)
	}
	vs, err := c.engine.ProcessBatch(ctx, raws)
	if err != nil {
		return nil, err
	}
	out := make([]Assessment, len(vs))
	for i, v := range vs {
		out[i] = assessmentFromVerdict(v)
	}
	return out, nil
}

// AssessForm scores a questionnaire submission that uses the web form's
// field names (age, sleepHours, stressTriggers, ...). body is the raw JSON.
func (c *StressCheck) AssessForm(ctx context.Context, body []byte) (Assessment, error) {
	raw, err := intake.Parse(body)
	if err != nil {
		return Assessment{}, err
	}
	v, err := c.engine.Process(ctx, raw)
	if err != nil {
		return Assessment{}, err
	}
	return assessmentFromVerdict(v), nil
}

// Preprocess returns the normalized record and the raw and scaled feature
// vectors for answers without running the model.
func (c *StressCheck) Preprocess(answers map[string]any) (Features, error) {
	tr, err := c.engine.Preprocess(model.AnswersFromMap(answers))
	if err != nil {
		return Features{}, err
	}
	return featuresFromTrace(tr), nil
}

// FeatureNames returns the model's feature order.
func (c *StressCheck) FeatureNames() []string {
	return c.engine.Schema().Names()
}

// Close releases the classifier backend.
func (c *StressCheck) Close() error {
	return c.engine.Close()
}
