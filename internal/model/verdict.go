package model

// Verdict is the human-readable outcome of classifying one answer set.
type Verdict struct {
	Class         int           `json:"predicted_class"`
	Label         string        `json:"predicted_label"` // low, medium, high (unknown for out-of-range classes)
	Probabilities Probabilities `json:"probabilities"`
}

// Probabilities holds per-class confidence as percentages rounded to 2 decimals.
type Probabilities struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Trace captures every intermediate stage of preprocessing one answer set.
type Trace struct {
	Normalized Record    `json:"normalized,omitempty"`
	Vector     []float64 `json:"vector,omitempty"`
	Scaled     []float64 `json:"scaled,omitempty"`
}
