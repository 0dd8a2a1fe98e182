// Package normalizer turns a raw answer set into a normalized Record
// carrying every model feature.
package normalizer

import (
	"slices"

	"github.com/crimson-sun/stresscheck/internal/engine/encoder"
	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/model"
)

// Normalize encodes raw into a Record holding exactly the 21 schema
// features. It never fails: missing or unrecognized answers take the
// per-feature defaults, and keys outside the schema are ignored.
func Normalize(raw model.RawAnswers) model.Record {
	rec := make(model.Record, schema.Default().Len())

	rec[schema.Age] = float64(encoder.Age(raw.Get(schema.Age)))
	rec[schema.Gender] = float64(encoder.Gender(raw.Get(schema.Gender)))
	rec[schema.CurrentStatus] = float64(encoder.CurrentStatus(raw.Get(schema.CurrentStatus)))
	rec[schema.SleepHours] = encoder.ToNumeric(raw.Get(schema.SleepHours))
	rec[schema.WorkHours] = encoder.ToNumeric(raw.Get(schema.WorkHours))
	rec[schema.HobbyHours] = encoder.ToNumeric(raw.Get(schema.HobbyHours))
	rec[schema.CommuteTime] = float64(encoder.CommuteTime(raw.Get(schema.CommuteTime)))
	rec[schema.NumberOfTasks] = float64(encoder.Count(raw.Get(schema.NumberOfTasks)))
	rec[schema.TaskDifficulty] = float64(encoder.TaskDifficulty(raw.Get(schema.TaskDifficulty)))
	rec[schema.WorkUnderPressure] = float64(encoder.WorkUnderPressure(raw.Get(schema.WorkUnderPressure)))
	rec[schema.SocialHours] = encoder.ToNumeric(raw.Get(schema.SocialHours))
	rec[schema.SocialQuality] = float64(encoder.SocialQuality(raw.Get(schema.SocialQuality)))
	rec[schema.HomeEnvironment] = float64(encoder.HomeEnvironment(raw.Get(schema.HomeEnvironment)))

	event := encoder.StressfulEvent(raw.Get(schema.StressfulEvent))
	rec[schema.StressfulEvent] = float64(event)

	// Stressor flags only count when the respondent reported an event.
	selected := encoder.Selection(raw.Get(schema.StressTypes))
	for _, label := range schema.StressorLabels() {
		flag := 0.0
		if event == 1 && slices.Contains(selected, label) {
			flag = 1
		}
		rec[label] = flag
	}

	rec[schema.Overthinking] = float64(encoder.Overthinking(raw.Get(schema.Overthinking)))
	return rec
}
