package main

import (
	"fmt"

	"github.com/crimson-sun/stresscheck/internal/config"
	"github.com/crimson-sun/stresscheck/internal/engine"
	"github.com/crimson-sun/stresscheck/internal/engine/classifier"
	"github.com/crimson-sun/stresscheck/internal/engine/scaler"
	"github.com/crimson-sun/stresscheck/internal/engine/schema"
)

// newStandardizer uses the scaling file when one is configured.
func newStandardizer(cfg config.Config) (*scaler.Standardizer, error) {
	s := schema.Default()
	sc := schema.DefaultScaling()
	if cfg.ScalerPath != "" {
		var err error
		if sc, err = schema.LoadScaling(cfg.ScalerPath); err != nil {
			return nil, err
		}
	}
	return scaler.New(s, sc)
}

// openClassifier connects the configured backend.
func openClassifier(cfg config.Config) (classifier.Classifier, error) {
	switch cfg.Classifier.Backend {
	case config.BackendRemote:
		return classifier.NewRemote(cfg.Classifier.RemoteURL,
			classifier.WithTimeout(cfg.Classifier.RemoteTimeout)), nil
	case config.BackendONNX:
		m, err := classifier.NewONNX(cfg.Classifier.ModelPath, cfg.Classifier.RuntimeLibrary)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Classifier.Backend)
	}
}

// newEngine builds an engine around cls, which may be nil for
// preprocessing-only use.
func newEngine(cfg config.Config, cls classifier.Classifier) (*engine.Engine, error) {
	st, err := newStandardizer(cfg)
	if err != nil {
		return nil, err
	}
	return engine.New(schema.Default(), st, cls)
}
