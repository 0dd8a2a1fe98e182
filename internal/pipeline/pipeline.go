// Package pipeline scores a stream of answer sets in batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crimson-sun/stresscheck/internal/metrics"
	"github.com/crimson-sun/stresscheck/internal/model"
	"github.com/crimson-sun/stresscheck/internal/output"
	"github.com/crimson-sun/stresscheck/internal/source"
)

// Processor runs the two halves of the engine. *engine.Engine satisfies it.
type Processor interface {
	Preprocess(raw model.RawAnswers) (model.Trace, error)
	Classify(ctx context.Context, tr model.Trace) (model.Verdict, error)
}

// Pipeline connects a source, processor, and output into a batch scorer.
type Pipeline struct {
	source  source.Source
	proc    Processor
	output  output.Output
	workers int
	metrics *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers scores up to n records concurrently. Reports are still
// written in input order.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMetrics records every scored record on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a Pipeline from the given components.
func New(src source.Source, proc Processor, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  src,
		proc:    proc,
		output:  out,
		workers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summary counts the outcome of a run.
type Summary struct {
	Scored  int
	Failed  int
	ByLabel map[string]int
}

func (s *Summary) add(r output.Report) {
	if r.Prediction == nil {
		s.Failed++
		return
	}
	s.Scored++
	if s.ByLabel == nil {
		s.ByLabel = make(map[string]int)
	}
	s.ByLabel[r.Prediction.Label]++
}

// Run scores every record from the source and writes one report each.
// Records that fail to decode or score produce an error report and the run
// continues. Run stops early only when ctx is cancelled or the output fails.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recs, err := p.source.Stream(ctx)
	if err != nil {
		return sum, fmt.Errorf("pipeline stream: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	// Each record gets a one-shot slot; the writer drains slots in order.
	pending := make(chan chan output.Report, p.workers)
	go func() {
		defer close(pending)
		for rec := range recs {
			slot := make(chan output.Report, 1)
			select {
			case pending <- slot:
			case <-ctx.Done():
				return
			}
			g.Go(func() error {
				slot <- p.score(gctx, rec)
				return nil
			})
		}
	}()

	stop := func() {
		cancel()
		for range pending {
		}
		g.Wait()
	}

	for slot := range pending {
		var r output.Report
		select {
		case r = <-slot:
		case <-ctx.Done():
			stop()
			return sum, ctx.Err()
		}
		if err := p.output.Write(ctx, r); err != nil {
			stop()
			return sum, fmt.Errorf("pipeline output: %w", err)
		}
		sum.add(r)
	}
	g.Wait()

	slog.Info("batch complete", "scored", sum.Scored, "failed", sum.Failed)
	return sum, ctx.Err()
}

func (p *Pipeline) score(ctx context.Context, rec source.Record) output.Report {
	start := time.Now()
	r := output.Report{Line: rec.Line, ID: rec.ID}

	if rec.Err != nil {
		p.metrics.Observe("", metrics.StageDecode, time.Since(start))
		slog.Warn("skipping record", "line", rec.Line, "error", rec.Err)
		r.Error = rec.Err.Error()
		return r
	}

	tr, err := p.proc.Preprocess(rec.Answers)
	if err != nil {
		p.metrics.Observe("", metrics.StageIntake, time.Since(start))
		r.Error = err.Error()
		return r
	}
	r.Trace = &tr

	v, err := p.proc.Classify(ctx, tr)
	if err != nil {
		p.metrics.Observe("", metrics.StageClassify, time.Since(start))
		slog.Warn("scoring failed", "line", rec.Line, "error", err)
		r.Error = err.Error()
		return r
	}
	p.metrics.Observe(v.Label, "", time.Since(start))
	r.Prediction = &v
	return r
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}
