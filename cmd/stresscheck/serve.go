package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/stresscheck/internal/engine/classifier"
	"github.com/crimson-sun/stresscheck/internal/metrics"
	"github.com/crimson-sun/stresscheck/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Starts the HTTP API:

  POST /api/predict   score a questionnaire submission
  GET  /api/health    liveness and model status
  GET  /metrics       Prometheus metrics

When the model cannot be loaded the server still starts; predictions fail
and /api/health reports model_loaded=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from STRESSCHECK_ADDR or PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	if err := cfg.ValidateSettings(); err != nil {
		return err
	}

	var cls classifier.Classifier
	if c, err := openClassifier(cfg); err != nil {
		slog.Error("model not loaded, serving without predictions", "backend", cfg.Classifier.Backend, "error", err)
	} else {
		cls = c
	}
	eng, err := newEngine(cfg, cls)
	if err != nil {
		return err
	}
	defer eng.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(eng, server.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
			Metrics:        metrics.New(reg),
			Gatherer:       reg,
		}).Handler(),
		ReadHeaderTimeout: cfg.Server.RequestTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("listening", "addr", cfg.Server.Addr, "model_loaded", eng.HasClassifier())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
