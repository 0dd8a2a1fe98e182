// Package metrics exposes Prometheus collectors for prediction traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error stages.
const (
	StageIntake   = "intake"
	StageClassify = "classify"
	StageDecode   = "decode"
)

// Metrics holds the prediction collectors. A nil *Metrics is a no-op.
type Metrics struct {
	Predictions *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    prometheus.Histogram
	InFlight    prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stresscheck_predictions_total",
				Help: "Total number of predictions by stress level",
			},
			[]string{"label"},
		),
		Errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stresscheck_prediction_errors_total",
				Help: "Total number of failed predictions by stage",
			},
			[]string{"stage"},
		),
		Duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stresscheck_prediction_duration_seconds",
				Help:    "Duration of prediction requests in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "stresscheck_predictions_in_flight",
				Help: "Number of predictions currently being computed",
			},
		),
	}
}

// Observe records one prediction outcome. label is ignored when stage is set.
func (m *Metrics) Observe(label, stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Duration.Observe(elapsed.Seconds())
	if stage != "" {
		m.Errors.WithLabelValues(stage).Inc()
		return
	}
	m.Predictions.WithLabelValues(label).Inc()
}

// Start marks a prediction as in flight and returns the func that ends it.
func (m *Metrics) Start() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
