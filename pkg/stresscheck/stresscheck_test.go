package stresscheck

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/crimson-sun/stresscheck/internal/engine/classifier/classifiertest"
	"github.com/crimson-sun/stresscheck/internal/intake"
)

const testModelPath = "../../models/mlp_model.onnx"

func skipWithoutModel(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testModelPath); os.IsNotExist(err) {
		t.Skip("ONNX model not available, skipping integration test")
	}
}

var relaxedStudent = map[string]any{
	"Age":                 "18-24",
	"Gender":              "Female",
	"Current_status":      "Student",
	"Sleep_hours":         "8",
	"Work_hours":          "2",
	"Hobby_hours":         "3",
	"Commute_time":        15,
	"Number_of_tasks":     "2",
	"Task_difficulty":     "Easy",
	"Work_under_pressure": "Not stressed",
	"Social_hours":        "4",
	"Social_quality":      "High (positive, supportive)",
	"Home_environment":    "Satisfied",
	"Stressful_event":     "No",
	"Overthinking":        "Rarely",
}

func newFake(t *testing.T, fake *classifiertest.Fake) *StressCheck {
	t.Helper()
	sc, err := New(WithClassifier(fake))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { sc.Close() })
	return sc
}

func TestAssess(t *testing.T) {
	sc := newFake(t, classifiertest.New(0, 0.9, 0.075, 0.025))

	got, err := sc.Assess(relaxedStudent)
	if err != nil {
		t.Fatalf("Assess() error: %v", err)
	}
	want := Assessment{
		Class:         0,
		Label:         "low",
		Probabilities: Probabilities{Low: 90, Medium: 7.5, High: 2.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assess() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssessClassifierError(t *testing.T) {
	fake := classifiertest.New(0, 1, 0, 0)
	fake.Err = errors.New("model crashed")
	sc := newFake(t, fake)

	if _, err := sc.Assess(relaxedStudent); err == nil {
		t.Fatal("expected error")
	}
}

func TestAssessBatch(t *testing.T) {
	sc := newFake(t, classifiertest.New(2, 0.1, 0.2, 0.7))

	got, err := sc.AssessBatch(context.Background(), []map[string]any{relaxedStudent, {}})
	if err != nil {
		t.Fatalf("AssessBatch() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, a := range got {
		if a.Label != "high" || a.Probabilities.High != 70 {
			t.Errorf("assessment = %+v", a)
		}
	}
}

func TestAssessForm(t *testing.T) {
	fake := classifiertest.New(1, 0.2, 0.6, 0.2)
	sc := newFake(t, fake)

	body := []byte(`{"age": "25-35", "currentStatus": "Employed", "stressfulEvents": true, "stressTriggers": ["Bad weather"]}`)
	got, err := sc.AssessForm(context.Background(), body)
	if err != nil {
		t.Fatalf("AssessForm() error: %v", err)
	}
	if got.Label != "medium" {
		t.Errorf("Label = %q, want medium", got.Label)
	}
	if len(fake.Seen()) != 2 {
		t.Fatalf("classifier saw %d vectors, want 2 (Predict and PredictProba)", len(fake.Seen()))
	}
}

func TestAssessFormRejectsBadBody(t *testing.T) {
	sc := newFake(t, classifiertest.New(0, 1, 0, 0))

	_, err := sc.AssessForm(context.Background(), []byte(`[1, 2]`))
	if !errors.Is(err, intake.ErrInvalidPayload) {
		t.Fatalf("err = %v, want ErrInvalidPayload", err)
	}
}

func TestPreprocess(t *testing.T) {
	sc := newFake(t, classifiertest.New(0, 1, 0, 0))

	f, err := sc.Preprocess(relaxedStudent)
	if err != nil {
		t.Fatalf("Preprocess() error: %v", err)
	}
	if len(f.Normalized) != 21 || len(f.Vector) != 21 || len(f.Scaled) != 21 {
		t.Fatalf("sizes = %d/%d/%d, want 21 each", len(f.Normalized), len(f.Vector), len(f.Scaled))
	}
	if f.Normalized["Current_status"] != 1 {
		t.Errorf("Current_status = %v, want 1", f.Normalized["Current_status"])
	}
	if f.Vector[6] != 15 {
		t.Errorf("Commute_time slot = %v, want 15", f.Vector[6])
	}
}

func TestFeatureNames(t *testing.T) {
	sc := newFake(t, classifiertest.New(0, 1, 0, 0))
	names := sc.FeatureNames()
	if len(names) != 21 || names[0] != "Age" || names[20] != "Overthinking" {
		t.Fatalf("FeatureNames() = %v", names)
	}
}

func TestCloseClosesClassifier(t *testing.T) {
	fake := classifiertest.New(0, 1, 0, 0)
	sc, err := New(WithClassifier(fake))
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.Close(); err != nil {
		t.Fatal(err)
	}
	if !fake.Closed() {
		t.Fatal("classifier not closed")
	}
}

func TestNewWithScalingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scaler.yaml")
	if err := os.WriteFile(path, []byte("Age: {mean: 1, std: 1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// An incomplete table is rejected at construction.
	if _, err := New(WithClassifier(classifiertest.New(0, 1, 0, 0)), WithScalingFile(path)); err == nil {
		t.Fatal("expected error for incomplete scaling table")
	}
}

func TestNewMissingScalingFile(t *testing.T) {
	_, err := New(WithClassifier(classifiertest.New(0, 1, 0, 0)), WithScalingFile("/nonexistent/scaler.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNewBadModelPathReturnsError(t *testing.T) {
	if _, err := New(WithModelPath("/nonexistent/model.onnx")); err == nil {
		t.Fatal("expected error for bad model path, got nil")
	}
}

func TestConcurrentAssess(t *testing.T) {
	sc := newFake(t, classifiertest.New(1, 0.3, 0.4, 0.3))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sc.Assess(relaxedStudent); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Assess() error: %v", err)
	}
}

func TestAssessWithModel(t *testing.T) {
	skipWithoutModel(t)

	sc, err := New(WithModelPath(testModelPath))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer sc.Close()

	a, err := sc.Assess(relaxedStudent)
	if err != nil {
		t.Fatalf("Assess() error: %v", err)
	}
	sum := a.Probabilities.Low + a.Probabilities.Medium + a.Probabilities.High
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("probabilities sum to %v, want ~100", sum)
	}
}
