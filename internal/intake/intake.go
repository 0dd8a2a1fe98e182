// Package intake validates questionnaire submissions from the web frontend
// and translates them to canonical answer sets.
package intake

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/model"
)

// ErrInvalidPayload is returned for bodies that are not a JSON object of
// the expected shape.
var ErrInvalidPayload = errors.New("intake: invalid payload")

//go:embed payload.schema.json
var payloadSchema []byte

var compiled struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

func payloadValidator() (*gojsonschema.Schema, error) {
	compiled.once.Do(func() {
		compiled.schema, compiled.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(payloadSchema))
	})
	return compiled.schema, compiled.err
}

// FieldMap maps frontend field names to canonical answer fields.
// stressfulEvents is handled separately.
var FieldMap = map[string]string{
	"ageRange":               schema.Age,
	"gender":                 schema.Gender,
	"currentStatus":          schema.CurrentStatus,
	"sleepHours":             schema.SleepHours,
	"workStudyHours":         schema.WorkHours,
	"hobbiesHours":           schema.HobbyHours,
	"commuteTime":            schema.CommuteTime,
	"tasksToComplete":        schema.NumberOfTasks,
	"taskDifficulty":         schema.TaskDifficulty,
	"feelingUnderPressure":   schema.WorkUnderPressure,
	"socialInteractionHours": schema.SocialHours,
	"interactionQuality":     schema.SocialQuality,
	"homeEnvironment":        schema.HomeEnvironment,
	"stressTriggers":         schema.StressTypes,
	"overthinkingFrequency":  schema.Overthinking,
}

const eventField = "stressfulEvents"

// Validate checks body against the submission schema. Unknown fields are
// allowed. The returned error wraps ErrInvalidPayload.
func Validate(body []byte) error {
	v, err := payloadValidator()
	if err != nil {
		return fmt.Errorf("intake: compile schema: %w", err)
	}
	if !json.Valid(body) {
		return fmt.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}
	res, err := v.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !res.Valid() {
		msgs := make([]string, len(res.Errors()))
		for i, desc := range res.Errors() {
			msgs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(msgs, "; "))
	}
	return nil
}

// Parse validates body and translates it.
func Parse(body []byte) (model.RawAnswers, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return Translate(payload), nil
}

// Translate renames frontend fields to canonical ones. Fields outside
// FieldMap are dropped. Stressful_event is always set, to "Yes" when
// stressfulEvents is truthy and "No" otherwise.
func Translate(payload map[string]any) model.RawAnswers {
	out := make(model.RawAnswers, len(FieldMap)+1)
	for from, to := range FieldMap {
		if v, ok := payload[from]; ok {
			out[to] = model.ValueOf(v)
		}
	}
	event := "No"
	if truthy(payload[eventField]) {
		event = "Yes"
	}
	out[schema.StressfulEvent] = model.Text(event)
	return out
}

// truthy follows the frontend's loose toggle semantics. Strings spelling a
// negative ("false", "no", "0") count as false.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "false", "no", "0":
			return false
		}
		return true
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case []any:
		return len(t) > 0
	default:
		return false
	}
}
