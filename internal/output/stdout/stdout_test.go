package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/crimson-sun/stresscheck/internal/model"
	"github.com/crimson-sun/stresscheck/internal/output"
)

func testReport() output.Report {
	return output.Report{
		Line:       1,
		ID:         "a",
		Prediction: &model.Verdict{Class: 2, Label: "high", Probabilities: model.Probabilities{Low: 1.5, Medium: 8.5, High: 90}},
		Trace: &model.Trace{
			Normalized: model.Record{"Age": 2},
			Vector:     []float64{2},
			Scaled:     []float64{0.89},
		},
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputCompactJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Standard, false)
		out.Write(context.Background(), testReport())
	})

	// Should be single line (NDJSON).
	lines := strings.Split(strings.TrimSpace(result), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"line", "id", "prediction", "trace"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("empty error should be omitted")
	}
	trace := m["trace"].(map[string]any)
	if _, ok := trace["vector"]; ok {
		t.Error("standard verbosity should omit vectors")
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Full, true)
	if err := out.Write(context.Background(), testReport()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"prediction\"") {
		t.Fatalf("expected indented output, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "\"scaled\"") {
		t.Fatalf("full verbosity should include scaled vector: %s", buf.String())
	}
}

func TestOutputMinimal(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Minimal, false)
	out.Write(context.Background(), testReport())

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["trace"]; ok {
		t.Error("minimal verbosity should omit trace")
	}
}

func TestOutputErrorReport(t *testing.T) {
	var buf bytes.Buffer
	out := NewWriter(&buf, output.Full, false)
	out.Write(context.Background(), output.Report{Line: 4, Error: "line 4: bad json"})

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["error"] != "line 4: bad json" {
		t.Errorf("error = %v", m["error"])
	}
	if _, ok := m["prediction"]; ok {
		t.Error("error report should omit prediction")
	}
}
