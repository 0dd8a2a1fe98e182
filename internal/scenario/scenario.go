// Package scenario holds the built-in reference respondents.
package scenario

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/stresscheck/internal/model"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// Scenario is a named answer set with the preprocessing it should produce and,
// optionally, the stress level the shipped model is expected to assign.
type Scenario struct {
	Name       string             `yaml:"name"`
	Expected   string             `yaml:"expected,omitempty"`
	Answers    map[string]any     `yaml:"answers"`
	Normalized map[string]float64 `yaml:"normalized,omitempty"`
}

// RawAnswers narrows the scenario's answers for the pipeline.
func (s Scenario) RawAnswers() model.RawAnswers {
	return model.AnswersFromMap(s.Answers)
}

// Builtin parses the embedded scenario set.
func Builtin() ([]Scenario, error) {
	return Parse(scenariosYAML)
}

// Load reads a scenario file in the same format as the built-in set.
func Load(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of scenarios.
func Parse(data []byte) ([]Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var out []Scenario
	if err := dec.Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	for i, s := range out {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario: entry %d has no name", i)
		}
	}
	return out, nil
}
