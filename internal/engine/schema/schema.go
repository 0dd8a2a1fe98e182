// Package schema holds the two constant tables that must stay in lockstep
// with the trained classifier: the ordered feature list and the per-feature
// standardization statistics.
package schema

// Canonical feature names, in training order.
const (
	Age               = "Age"
	Gender            = "Gender"
	CurrentStatus     = "Current_status"
	SleepHours        = "Sleep_hours"
	WorkHours         = "Work_hours"
	HobbyHours        = "Hobby_hours"
	CommuteTime       = "Commute_time"
	NumberOfTasks     = "Number_of_tasks"
	TaskDifficulty    = "Task_difficulty"
	WorkUnderPressure = "Work_under_pressure"
	SocialHours       = "Social_hours"
	SocialQuality     = "Social_quality"
	HomeEnvironment   = "Home_environment"
	StressfulEvent    = "Stressful_event"
	Arguing           = "Arguing/conflict with someone"
	AcademicFailure   = "Academic/work failure or poor performance"
	Transportation    = "Transportation problem / car issue"
	Financial         = "Financial stress"
	Health            = "Health-related stress"
	BadWeather        = "Bad weather"
	Overthinking      = "Overthinking"
)

// StressTypes is the raw answer field carrying the stressor selection.
// It is not itself a feature; it expands into the six stressor flags.
const StressTypes = "Stress_types"

var stressorLabels = [...]string{
	Arguing,
	AcademicFailure,
	Transportation,
	Financial,
	Health,
	BadWeather,
}

// StressorLabels returns the six stressor flag names in schema order.
func StressorLabels() []string {
	out := make([]string, len(stressorLabels))
	copy(out, stressorLabels[:])
	return out
}

var defaultOrder = [...]string{
	Age,
	Gender,
	CurrentStatus,
	SleepHours,
	WorkHours,
	HobbyHours,
	CommuteTime,
	NumberOfTasks,
	TaskDifficulty,
	WorkUnderPressure,
	SocialHours,
	SocialQuality,
	HomeEnvironment,
	StressfulEvent,
	Arguing,
	AcademicFailure,
	Transportation,
	Financial,
	Health,
	BadWeather,
	Overthinking,
}

// Schema is an immutable ordered list of feature names.
type Schema struct {
	names []string
	index map[string]int
}

// New builds a Schema from names. Duplicate names keep their first position.
func New(names ...string) Schema {
	s := Schema{
		names: make([]string, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for _, n := range names {
		if _, dup := s.index[n]; dup {
			continue
		}
		s.index[n] = len(s.names)
		s.names = append(s.names, n)
	}
	return s
}

// Default returns the 21-feature schema the classifier was trained on.
func Default() Schema {
	return New(defaultOrder[:]...)
}

// Len returns the number of feature slots.
func (s Schema) Len() int { return len(s.names) }

// Names returns a copy of the feature names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Name returns the feature at slot i.
func (s Schema) Name(i int) string { return s.names[i] }

// Index returns the slot of feature name.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
