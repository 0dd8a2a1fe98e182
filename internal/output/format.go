package output

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/stresscheck/internal/model"
)

// Verbosity controls how much of the preprocessing trace a report carries.
type Verbosity int

const (
	// Minimal reports only the prediction.
	Minimal Verbosity = iota
	// Standard adds the normalized record.
	Standard
	// Full adds the ordered and standardized vectors.
	Full
)

func (v Verbosity) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Full:
		return "full"
	default:
		return "standard"
	}
}

// ParseVerbosity maps "minimal", "standard" or "full" to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "standard", "":
		return Standard, nil
	case "full":
		return Full, nil
	}
	return Standard, fmt.Errorf("unknown verbosity %q", s)
}

// FormatReport returns a copy of r with the trace trimmed to verbosity.
func FormatReport(r Report, v Verbosity) Report {
	if r.Trace == nil {
		return r
	}
	switch v {
	case Minimal:
		r.Trace = nil
	case Standard:
		r.Trace = &model.Trace{Normalized: r.Trace.Normalized}
	}
	return r
}
