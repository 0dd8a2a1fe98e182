// Package stresscheck scores a respondent's stress level from survey
// answers using a trained three-class model.
//
// Quick start:
//
//	sc, err := stresscheck.New(stresscheck.WithModelPath("models/mlp_model.onnx"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sc.Close()
//
//	a, _ := sc.Assess(map[string]any{
//	    "Age":            "18-24",
//	    "Current_status": "Student",
//	    "Sleep_hours":    "6-8",
//	})
//	fmt.Println(a.Label, a.Probabilities)
//
// Answers are keyed by canonical field name. Missing or unrecognized answers
// fall back to per-field defaults, so preprocessing never fails. A
// StressCheck is safe for concurrent use; create once and reuse.
package stresscheck
