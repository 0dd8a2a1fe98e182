package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sample returns the value of the counter or gauge series name{labelValue}
// (labelValue empty for unlabeled series), or -1 when absent.
func sample(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			lv := ""
			if len(m.GetLabel()) > 0 {
				lv = m.GetLabel()[0].GetValue()
			}
			if lv != labelValue {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				return float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return -1
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe("high", "", 3*time.Millisecond)
	m.Observe("high", "", time.Millisecond)
	m.Observe("low", "", time.Millisecond)
	m.Observe("", StageIntake, time.Millisecond)

	checks := []struct {
		name, label string
		want        float64
	}{
		{"stresscheck_predictions_total", "high", 2},
		{"stresscheck_predictions_total", "low", 1},
		{"stresscheck_predictions_total", "medium", -1},
		{"stresscheck_prediction_errors_total", StageIntake, 1},
		{"stresscheck_prediction_duration_seconds", "", 4},
	}
	for _, c := range checks {
		if got := sample(t, reg, c.name, c.label); got != c.want {
			t.Errorf("%s{%s} = %v, want %v", c.name, c.label, got, c.want)
		}
	}
}

func TestStart(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	done := m.Start()
	if got := sample(t, reg, "stresscheck_predictions_in_flight", ""); got != 1 {
		t.Fatalf("in flight = %v, want 1", got)
	}
	done()
	if got := sample(t, reg, "stresscheck_predictions_in_flight", ""); got != 0 {
		t.Fatalf("in flight = %v, want 0", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Observe("low", "", time.Millisecond)
	m.Start()()
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
