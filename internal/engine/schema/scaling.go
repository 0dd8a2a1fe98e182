package schema

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stats is the training-time mean and standard deviation of one feature.
type Stats struct {
	Mean float64 `yaml:"mean" json:"mean"`
	Std  float64 `yaml:"std" json:"std"`
}

// Divisor returns the standard deviation, with zero replaced by 1.
func (s Stats) Divisor() float64 {
	if s.Std == 0 {
		return 1
	}
	return s.Std
}

// Scaling maps feature name to its standardization statistics.
type Scaling map[string]Stats

// DefaultScaling returns the statistics fitted alongside the shipped model.
func DefaultScaling() Scaling {
	return Scaling{
		Age:               {Mean: 1.04569955, Std: 1.06964953},
		Gender:            {Mean: 0.47668151, Std: 0.49945595},
		CurrentStatus:     {Mean: 1.56644012, Std: 0.91288131},
		SleepHours:        {Mean: 6.24003488, Std: 2.10615835},
		WorkHours:         {Mean: 4.92024824, Std: 3.36650644},
		HobbyHours:        {Mean: 3.42145075, Std: 1.96339558},
		CommuteTime:       {Mean: 52.77243965, Std: 41.28204429},
		NumberOfTasks:     {Mean: 5.93102802, Std: 3.27210002},
		TaskDifficulty:    {Mean: 1.01593625, Std: 0.87392726},
		WorkUnderPressure: {Mean: 1.07311929, Std: 0.72570191},
		SocialHours:       {Mean: 5.23416809, Std: 2.88210155},
		SocialQuality:     {Mean: 1.12819311, Std: 0.8590464},
		HomeEnvironment:   {Mean: 0.65268338, Std: 0.47611741},
		StressfulEvent:    {Mean: 0.58073588, Std: 0.49343867},
		Arguing:           {Mean: 0.27349426, Std: 0.44575234},
		AcademicFailure:   {Mean: 0.28825873, Std: 0.45295213},
		Transportation:    {Mean: 0.26201078, Std: 0.43972847},
		Financial:         {Mean: 0.2765409, Std: 0.44728741},
		Health:            {Mean: 0.27349426, Std: 0.44575234},
		BadWeather:        {Mean: 0.28872744, Std: 0.45317095},
		Overthinking:      {Mean: 1.6217483, Std: 0.99087727},
	}
}

// LoadScaling reads a YAML (or JSON) document mapping feature name to
// {mean, std}. Unknown keys inside an entry are rejected.
func LoadScaling(path string) (Scaling, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scaling: %w", err)
	}
	return ParseScaling(data)
}

// ParseScaling decodes a scaling document from memory.
func ParseScaling(data []byte) (Scaling, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scaling
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("scaling: decode: %w", err)
	}
	if len(sc) == 0 {
		return nil, errors.New("scaling: document has no entries")
	}
	return sc, nil
}

// Validate checks that every schema feature has exactly one entry, that no
// entry names an unknown feature, and that all statistics are finite with a
// non-negative standard deviation.
func (sc Scaling) Validate(s Schema) error {
	var problems []string

	for _, name := range s.names {
		st, ok := sc[name]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing entry for %q", name))
			continue
		}
		if !finite(st.Mean) || !finite(st.Std) {
			problems = append(problems, fmt.Sprintf("non-finite statistics for %q", name))
		}
		if st.Std < 0 {
			problems = append(problems, fmt.Sprintf("negative std for %q", name))
		}
	}

	var extra []string
	for name := range sc {
		if _, ok := s.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		problems = append(problems, fmt.Sprintf("unknown feature %q", name))
	}

	if len(problems) > 0 {
		return fmt.Errorf("scaling: %s", strings.Join(problems, "; "))
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
