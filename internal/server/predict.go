package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/crimson-sun/stresscheck/internal/intake"
	"github.com/crimson-sun/stresscheck/internal/metrics"
	"github.com/crimson-sun/stresscheck/internal/model"
)

type predictResponse struct {
	Success      bool           `json:"success"`
	PredictionID string         `json:"prediction_id"`
	Prediction   *model.Verdict `json:"prediction"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer s.opts.Metrics.Start()()
	reqID := middleware.GetReqID(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.fail(w, r, metrics.StageDecode, start, err)
		return
	}

	answers, err := intake.Parse(body)
	if err != nil {
		s.fail(w, r, metrics.StageIntake, start, err)
		return
	}
	slog.Debug("received answers", "request_id", reqID, "fields", answers.Fields())

	verdict, err := s.engine.Process(r.Context(), answers)
	if err != nil {
		s.fail(w, r, metrics.StageClassify, start, err)
		return
	}

	id := uuid.NewString()
	s.opts.Metrics.Observe(verdict.Label, "", time.Since(start))
	slog.Info("prediction",
		"request_id", reqID,
		"prediction_id", id,
		"label", verdict.Label,
		"low", verdict.Probabilities.Low,
		"medium", verdict.Probabilities.Medium,
		"high", verdict.Probabilities.High,
	)
	writeJSON(w, http.StatusOK, predictResponse{
		Success:      true,
		PredictionID: id,
		Prediction:   &verdict,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, stage string, start time.Time, err error) {
	s.opts.Metrics.Observe("", stage, time.Since(start))

	level := slog.LevelError
	if errors.Is(err, intake.ErrInvalidPayload) {
		level = slog.LevelWarn
	}
	slog.Log(r.Context(), level, "prediction failed", "request_id", middleware.GetReqID(r.Context()), "stage", stage, "error", err)

	writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: err.Error()})
}
