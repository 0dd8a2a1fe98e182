package stresscheck

import "github.com/crimson-sun/stresscheck/internal/model"

// Assessment is the scored outcome for one answer set.
// This is the stable public type; internal representations may change
// without breaking consumers.
type Assessment struct {
	Class         int           `json:"predicted_class"` // 0 low, 1 medium, 2 high
	Label         string        `json:"predicted_label"`
	Probabilities Probabilities `json:"probabilities"` // percentages, 2 decimals
}

// Probabilities holds per-class confidence in percent.
type Probabilities struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Features is the preprocessed form of an answer set.
type Features struct {
	Normalized map[string]float64 `json:"normalized"`
	Vector     []float64          `json:"vector"`
	Scaled     []float64          `json:"scaled"`
}

func assessmentFromVerdict(v model.Verdict) Assessment {
	return Assessment{
		Class: v.Class,
		Label: v.Label,
		Probabilities: Probabilities{
			Low:    v.Probabilities.Low,
			Medium: v.Probabilities.Medium,
			High:   v.Probabilities.High,
		},
	}
}

func featuresFromTrace(tr model.Trace) Features {
	return Features{
		Normalized: map[string]float64(tr.Normalized),
		Vector:     tr.Vector,
		Scaled:     tr.Scaled,
	}
}
