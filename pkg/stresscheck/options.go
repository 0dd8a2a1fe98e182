package stresscheck

import (
	"path/filepath"
	"time"

	"github.com/crimson-sun/stresscheck/internal/engine/classifier"
)

type options struct {
	modelPath      string
	runtimeLibrary string
	remoteURL      string
	remoteTimeout  time.Duration
	scalingPath    string
	classifier     classifier.Classifier
}

// Option configures a StressCheck instance.
type Option func(*options)

// WithModelPath sets the ONNX model file. Default: models/mlp_model.onnx.
func WithModelPath(path string) Option {
	return func(o *options) {
		o.modelPath = path
	}
}

// WithRuntimeLibrary sets the ONNX Runtime shared library. By default
// libonnxruntime.so is looked up next to the model.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.runtimeLibrary = path
	}
}

// WithRemote scores against a model server at baseURL instead of loading
// the model in-process.
func WithRemote(baseURL string) Option {
	return func(o *options) {
		o.remoteURL = baseURL
	}
}

// WithRemoteTimeout bounds each request to the model server. Default: 10s.
func WithRemoteTimeout(d time.Duration) Option {
	return func(o *options) {
		o.remoteTimeout = d
	}
}

// WithScalingFile replaces the built-in standardization table with one read
// from a YAML or JSON file.
func WithScalingFile(path string) Option {
	return func(o *options) {
		o.scalingPath = path
	}
}

// WithClassifier uses c directly. It takes precedence over WithModelPath
// and WithRemote. StressCheck.Close closes c.
func WithClassifier(c classifier.Classifier) Option {
	return func(o *options) {
		o.classifier = c
	}
}

func defaultOptions() options {
	return options{
		modelPath:     filepath.Join("models", "mlp_model.onnx"),
		remoteTimeout: 10 * time.Second,
	}
}

// buildClassifier resolves the configured backend. An explicit classifier
// wins, then a remote URL, then the ONNX model.
func buildClassifier(o options) (classifier.Classifier, error) {
	switch {
	case o.classifier != nil:
		return o.classifier, nil
	case o.remoteURL != "":
		return classifier.NewRemote(o.remoteURL, classifier.WithTimeout(o.remoteTimeout)), nil
	default:
		return classifier.NewONNX(o.modelPath, o.runtimeLibrary)
	}
}
