package normalizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/stresscheck/internal/engine/schema"
	"github.com/crimson-sun/stresscheck/internal/model"
)

func answers(m map[string]any) model.RawAnswers { return model.AnswersFromMap(m) }

func TestNormalizeRelaxedStudent(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Age":                 "18-24",
		"Gender":              "Male",
		"Current_status":      "Student",
		"Sleep_hours":         8,
		"Work_hours":          4,
		"Hobby_hours":         3,
		"Commute_time":        "15",
		"Number_of_tasks":     2,
		"Task_difficulty":     "Easy",
		"Work_under_pressure": "Not stressed",
		"Social_hours":        4,
		"Social_quality":      "High (positive, supportive)",
		"Home_environment":    "Satisfied",
		"Stressful_event":     "No",
		"Stress_types":        []any{},
		"Overthinking":        "Never",
	}))

	want := model.Record{
		schema.Age: 1, schema.Gender: 1, schema.CurrentStatus: 1,
		schema.SleepHours: 8, schema.WorkHours: 4, schema.HobbyHours: 3,
		schema.CommuteTime: 15, schema.NumberOfTasks: 2,
		schema.TaskDifficulty: 0, schema.WorkUnderPressure: 0,
		schema.SocialHours: 4, schema.SocialQuality: 2, schema.HomeEnvironment: 1,
		schema.StressfulEvent: 0,
		schema.Arguing: 0, schema.AcademicFailure: 0, schema.Transportation: 0,
		schema.Financial: 0, schema.Health: 0, schema.BadWeather: 0,
		schema.Overthinking: 0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeOverwhelmedBoth(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Age":                 "25-35",
		"Gender":              "Female",
		"Current_status":      "Both",
		"Sleep_hours":         4,
		"Work_hours":          12,
		"Hobby_hours":         0,
		"Commute_time":        "150",
		"Number_of_tasks":     10,
		"Task_difficulty":     "Hard",
		"Work_under_pressure": "Highly stressed",
		"Social_hours":        0,
		"Social_quality":      "Low (negative or draining)",
		"Home_environment":    "Dissatisfied",
		"Stressful_event":     "Yes",
		"Stress_types": []any{
			"Financial stress",
			"Academic/work failure or poor performance",
			"Arguing/conflict with someone",
		},
		"Overthinking": "Almost always",
	}))

	want := model.Record{
		schema.Age: 2, schema.Gender: 0, schema.CurrentStatus: 3,
		schema.SleepHours: 4, schema.WorkHours: 12, schema.HobbyHours: 0,
		schema.CommuteTime: 150, schema.NumberOfTasks: 10,
		schema.TaskDifficulty: 2, schema.WorkUnderPressure: 2,
		schema.SocialHours: 0, schema.SocialQuality: 0, schema.HomeEnvironment: 0,
		schema.StressfulEvent: 1,
		schema.Arguing: 1, schema.AcademicFailure: 1, schema.Transportation: 0,
		schema.Financial: 1, schema.Health: 0, schema.BadWeather: 0,
		schema.Overthinking: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeEmptyUsesDefaults(t *testing.T) {
	got := Normalize(model.RawAnswers{})

	want := model.Record{
		schema.Age: 1, schema.Gender: 0, schema.CurrentStatus: 0,
		schema.SleepHours: 0, schema.WorkHours: 0, schema.HobbyHours: 0,
		schema.CommuteTime: 45, schema.NumberOfTasks: 0,
		schema.TaskDifficulty: 1, schema.WorkUnderPressure: 0,
		schema.SocialHours: 0, schema.SocialQuality: 1, schema.HomeEnvironment: 1,
		schema.StressfulEvent: 0,
		schema.Arguing: 0, schema.AcademicFailure: 0, schema.Transportation: 0,
		schema.Financial: 0, schema.Health: 0, schema.BadWeather: 0,
		schema.Overthinking: 0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize(empty) mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeNilAnswers(t *testing.T) {
	if got := Normalize(nil); len(got) != 21 {
		t.Fatalf("len(Normalize(nil)) = %d, want 21", len(got))
	}
}

func TestNormalizeAlwaysHasSchemaKeys(t *testing.T) {
	inputs := []model.RawAnswers{
		nil,
		answers(map[string]any{"Mood": "great", "Extra": 3}),
		answers(map[string]any{"Stressful_event": "Yes", "Stress_types": "Bad weather, Unknown stressor"}),
		answers(map[string]any{"Age": map[string]any{"nested": true}}),
	}
	names := schema.Default().Names()
	for _, in := range inputs {
		got := Normalize(in)
		if len(got) != len(names) {
			t.Errorf("Normalize(%v) has %d keys, want %d", in, len(got), len(names))
		}
		for _, n := range names {
			if _, ok := got.Get(n); !ok {
				t.Errorf("Normalize(%v) missing %q", in, n)
			}
		}
	}
}

func TestStressorsIgnoredWithoutEvent(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Stressful_event": "No",
		"Stress_types":    []any{"Financial stress", "Bad weather"},
	}))
	for _, label := range schema.StressorLabels() {
		if got[label] != 0 {
			t.Errorf("%s = %v, want 0 when no event was reported", label, got[label])
		}
	}
}

func TestStressorsFromDelimitedText(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Stressful_event": "Yes",
		"Stress_types":    "Financial stress; Bad weather , financial STRESS",
	}))
	if got[schema.Financial] != 1 {
		t.Errorf("Financial = %v, want 1", got[schema.Financial])
	}
	if got[schema.BadWeather] != 1 {
		t.Errorf("Bad weather = %v, want 1", got[schema.BadWeather])
	}
	if got[schema.Health] != 0 {
		t.Errorf("Health = %v, want 0", got[schema.Health])
	}
}

func TestStressorLabelsMatchExactly(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Stressful_event": "Yes",
		"Stress_types":    []any{"financial stress", "Bad weather today"},
	}))
	if got[schema.Financial] != 0 || got[schema.BadWeather] != 0 {
		t.Errorf("near-miss labels were accepted: %v", got)
	}
}

func TestNormalizeFreeTextQuantities(t *testing.T) {
	got := Normalize(answers(map[string]any{
		"Sleep_hours":     "6-8 hours",
		"Work_hours":      "all day",
		"Social_hours":    "1 hour calling, 1 hour chatting",
		"Hobby_hours":     "none",
		"Number_of_tasks": "3.7",
		"Commute_time":    60,
	}))
	checks := map[string]float64{
		schema.SleepHours:    7,
		schema.WorkHours:     10,
		schema.SocialHours:   2,
		schema.HobbyHours:    0,
		schema.NumberOfTasks: 3,
		schema.CommuteTime:   60,
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %v", k, got[k], want)
		}
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	in := answers(map[string]any{
		"Age": 29, "Sleep_hours": "5", "Stressful_event": "Yes",
		"Stress_types": []any{"Health-related stress"},
	})
	first := Normalize(in)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Normalize(in)); diff != "" {
			t.Fatalf("run %d differs:\n%s", i, diff)
		}
	}
}
