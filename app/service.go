// Package app wires configuration, catalogue loading, searches, metrics and
// export into a single run.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	_ "github.com/kilianp07/geodeplan/app/plugins"
	"github.com/kilianp07/geodeplan/config"
	"github.com/kilianp07/geodeplan/core/catalog"
	coremetrics "github.com/kilianp07/geodeplan/core/metrics"
	"github.com/kilianp07/geodeplan/core/model"
	"github.com/kilianp07/geodeplan/core/score"
	"github.com/kilianp07/geodeplan/core/search"
	"github.com/kilianp07/geodeplan/infra/logger"
	"github.com/kilianp07/geodeplan/infra/metrics"
	"github.com/kilianp07/geodeplan/internal/eventbus"
	"github.com/kilianp07/geodeplan/pkg/export"
)

// Progress is published on the service bus after each finished search.
type Progress struct {
	RunID       string
	BlueprintID int
	Done        int
	Total       int
	Value       int
	Partial     bool
	Duration    time.Duration
}

// Service runs catalogue searches.
type Service struct {
	cfg  *config.Config
	sink coremetrics.MetricsSink
	bus  *eventbus.Bus[Progress]
	log  logger.Logger
}

// New creates a Service from the configuration, building the configured
// metrics sinks.
func New(cfg *config.Config) (*Service, error) {
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return NewWithSink(cfg, sink), nil
}

// NewWithSink creates a Service recording to the given sink.
func NewWithSink(cfg *config.Config, sink coremetrics.MetricsSink) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{
		cfg:  cfg,
		sink: sink,
		bus:  eventbus.New[Progress](eventbus.WithBuffer(64)),
		log:  logger.New("service"),
	}
}

// Subscribe returns a channel receiving progress events. It is closed by
// Close.
func (s *Service) Subscribe() <-chan Progress { return s.bus.Subscribe() }

// Run loads the configured catalogue and searches it. The Prometheus
// endpoint, when configured, is served for the duration of the run.
func (s *Service) Run(ctx context.Context) (*score.Report, error) {
	if s.cfg.Run.Input == "" {
		return nil, errors.New("no catalogue input configured")
	}
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		srvCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := metrics.StartPromServer(srvCtx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	bps, err := catalog.Load(s.cfg.Run.Input)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	s.log.Infow("catalogue loaded", map[string]any{"path": s.cfg.Run.Input, "blueprints": len(bps)})
	return s.Solve(ctx, bps)
}

// Solve searches bps concurrently and scores them. A search hitting the
// per-search timeout yields a partial entry; cancelling ctx aborts the run.
func (s *Service) Solve(ctx context.Context, bps []model.Blueprint) (*score.Report, error) {
	rc := s.cfg.Run
	mode, err := score.ParseMode(rc.Mode)
	if err != nil {
		return nil, err
	}
	if mode == score.ModeProduct && rc.Limit > 0 && rc.Limit < len(bps) {
		bps = bps[:rc.Limit]
	}
	runID := uuid.NewString()
	start := time.Now()
	entries := make([]score.Entry, len(bps))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if rc.Parallelism > 0 {
		g.SetLimit(rc.Parallelism)
	}
	for i, bp := range bps {
		i, bp := i, bp
		g.Go(func() error {
			entry, err := s.search(gctx, runID, bp)
			if err != nil {
				return err
			}
			entries[i] = entry
			s.bus.Publish(Progress{
				RunID:       runID,
				BlueprintID: bp.ID,
				Done:        int(done.Add(1)),
				Total:       len(bps),
				Value:       entry.Value,
				Partial:     entry.Partial,
				Duration:    entry.Duration,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	report, err := score.NewReport(runID, mode, rc.Horizon, rc.Limit, entries)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	if rec, ok := s.sink.(coremetrics.RunRecorder); ok {
		ev := coremetrics.RunEvent{
			RunID:      runID,
			Mode:       string(mode),
			Horizon:    rc.Horizon,
			Blueprints: len(entries),
			Score:      report.Score,
			Partial:    report.Partial,
			Duration:   report.Duration,
			Time:       time.Now(),
		}
		if err := rec.RecordRun(ev); err != nil {
			s.log.Warnf("record run: %v", err)
		}
	}
	if ec := s.cfg.Export; ec.Enabled() {
		if err := export.WriteFile(ec.Path, ec.Format, report); err != nil {
			return report, fmt.Errorf("export: %w", err)
		}
	}
	s.log.Infow("run finished", map[string]any{
		"run_id":     runID,
		"mode":       string(mode),
		"horizon":    rc.Horizon,
		"blueprints": len(entries),
		"score":      report.Score,
		"partial":    report.Partial,
		"elapsed_ms": report.Duration.Milliseconds(),
	})
	return report, nil
}

func (s *Service) search(ctx context.Context, runID string, bp model.Blueprint) (score.Entry, error) {
	rc := s.cfg.Run
	sctx, cancel := ctx, context.CancelFunc(func() {})
	if t := rc.Timeout(); t > 0 {
		sctx, cancel = context.WithTimeout(ctx, t)
	}
	defer cancel()

	start := time.Now()
	res, err := search.Solve(sctx, bp, rc.Horizon, search.Options{TracePlan: rc.TracePlan})
	elapsed := time.Since(start)
	if err != nil {
		if !res.Partial || !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return score.Entry{}, err
		}
		s.log.Warnf("blueprint %d timed out after %s, keeping best value %d", bp.ID, elapsed, res.Value)
	}
	s.log.Debugw("search finished", map[string]any{
		"blueprint_id": bp.ID,
		"value":        res.Value,
		"nodes":        res.Stats.Nodes,
		"partial":      res.Partial,
	})
	ev := coremetrics.SearchEvent{
		RunID:       runID,
		BlueprintID: bp.ID,
		Horizon:     rc.Horizon,
		Value:       res.Value,
		Stats:       res.Stats,
		Partial:     res.Partial,
		Duration:    elapsed,
		Time:        time.Now(),
	}
	if err := s.sink.RecordSearch(ev); err != nil {
		s.log.Warnf("record search for blueprint %d: %v", bp.ID, err)
	}
	return score.Entry{
		BlueprintID: bp.ID,
		Value:       res.Value,
		Partial:     res.Partial,
		Stats:       res.Stats,
		Duration:    elapsed,
		Plan:        res.Plan,
	}, nil
}

// Close releases the progress bus and the metrics sinks.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}
