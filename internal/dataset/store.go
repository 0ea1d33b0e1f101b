package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"jobdash/internal/config"
	"jobdash/internal/errors"
	"jobdash/internal/metrics"
	"jobdash/internal/models"
	"jobdash/internal/telemetry"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type readFunc func(path string, onErr func(line int, err error)) ([]models.JobPosting, error)

// Store owns the normalized posting table. The table is built at most
// once, on first use, and is immutable afterwards. A failed build is not
// retried: the table stays empty for the life of the process.
type Store struct {
	logger *zap.Logger
	tracer trace.Tracer
	path   string
	read   readFunc

	once  sync.Once
	built atomic.Bool
	rows  []models.JobPosting
}

func NewStore(cfg *config.Config, logger *zap.Logger) *Store {
	return &Store{
		logger: logger,
		tracer: telemetry.GetTracer("jobdash/dataset"),
		path:   cfg.JobDataPath,
		read:   ReadJobPostings,
	}
}

// Rows returns the normalized table, building it on first call. Concurrent
// callers observe either the fully built table or block until the single
// build finishes; no caller ever sees a partial table.
func (s *Store) Rows(ctx context.Context) []models.JobPosting {
	s.once.Do(func() { s.load(ctx) })
	return s.rows
}

// Snapshot reports the table and whether a build has completed, without
// triggering one.
func (s *Store) Snapshot() ([]models.JobPosting, bool) {
	if !s.built.Load() {
		return nil, false
	}
	return s.rows, true
}

func (s *Store) load(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "LoadJobPostings")
	defer span.End()
	defer s.built.Store(true)

	span.SetAttributes(telemetry.String("postings.path", s.path))
	start := time.Now()

	var skipped int
	records, err := s.read(s.path, func(line int, rowErr error) {
		skipped++
		s.logger.Warn("skipping unparsable csv row",
			zap.Int("line", line),
			zap.Error(rowErr))
	})
	if err != nil {
		derr := errors.SourceUnavailable("loading postings", err)
		span.RecordError(derr)
		s.logger.Error("failed to load postings, queries will see an empty table",
			zap.String("path", s.path),
			zap.Error(derr))
		metrics.ObserveHistogram("jobdash_load_duration_seconds", time.Since(start).Seconds(), metrics.Labels{"status": "error"})
		return
	}

	for i := range records {
		normalize(&records[i])
	}
	s.rows = records

	span.SetAttributes(
		telemetry.Int("postings.loaded", len(records)),
		telemetry.Int("postings.skipped", skipped),
	)
	metrics.IncCounter("jobdash_rows_total", float64(len(records)), metrics.Labels{"kind": "loaded"})
	metrics.IncCounter("jobdash_rows_total", float64(skipped), metrics.Labels{"kind": "skipped"})
	metrics.ObserveHistogram("jobdash_load_duration_seconds", time.Since(start).Seconds(), metrics.Labels{"status": "ok"})

	s.logger.Info("postings loaded",
		zap.String("path", s.path),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped),
		zap.Duration("elapsed", time.Since(start)))
}
