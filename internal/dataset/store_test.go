package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"jobdash/internal/models"
	"jobdash/internal/telemetry"

	"go.uber.org/zap"
)

func newTestStore(read readFunc) *Store {
	return &Store{
		logger: zap.NewNop(),
		tracer: telemetry.GetTracer("jobdash/dataset"),
		path:   "unused.csv",
		read:   read,
	}
}

func TestStore_ConcurrentRowsBuildOnce(t *testing.T) {
	var reads atomic.Int32
	store := newTestStore(func(path string, onErr func(int, error)) ([]models.JobPosting, error) {
		reads.Add(1)
		return []models.JobPosting{{JobID: "1"}, {JobID: "2"}}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rows := store.Rows(context.Background()); len(rows) != 2 {
				t.Errorf("expected 2 rows, got %d", len(rows))
			}
		}()
	}
	wg.Wait()

	if got := reads.Load(); got != 1 {
		t.Fatalf("expected a single build, got %d", got)
	}
}

func TestStore_FailedBuildIsNotRetried(t *testing.T) {
	var reads atomic.Int32
	store := newTestStore(func(path string, onErr func(int, error)) ([]models.JobPosting, error) {
		reads.Add(1)
		return nil, fmt.Errorf("no such file")
	})

	if rows := store.Rows(context.Background()); len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
	if rows := store.Rows(context.Background()); len(rows) != 0 {
		t.Fatalf("expected table to stay empty, got %d rows", len(rows))
	}
	if got := reads.Load(); got != 1 {
		t.Fatalf("expected a single build attempt, got %d", got)
	}

	rows, built := store.Snapshot()
	if !built {
		t.Fatalf("expected build to be marked complete after failure")
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty snapshot, got %d rows", len(rows))
	}
}

func TestStore_SnapshotDoesNotTriggerBuild(t *testing.T) {
	var reads atomic.Int32
	store := newTestStore(func(path string, onErr func(int, error)) ([]models.JobPosting, error) {
		reads.Add(1)
		return []models.JobPosting{{JobID: "1"}}, nil
	})

	if _, built := store.Snapshot(); built {
		t.Fatalf("expected unbuilt snapshot before first query")
	}
	if got := reads.Load(); got != 0 {
		t.Fatalf("expected no build, got %d", got)
	}

	store.Rows(context.Background())

	rows, built := store.Snapshot()
	if !built || len(rows) != 1 {
		t.Fatalf("expected built snapshot with 1 row, got built=%v rows=%d", built, len(rows))
	}
}

func TestStore_RowsAreNormalized(t *testing.T) {
	store := newTestStore(func(path string, onErr func(int, error)) ([]models.JobPosting, error) {
		return []models.JobPosting{{
			JobID:       "42",
			Experience:  "2 to 9 Years",
			SalaryRange: "$61K-$104K",
		}}, nil
	})

	rows := store.Rows(context.Background())
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	p := rows[0]
	if p.RecordID != recordIDFromJobID("42") {
		t.Fatalf("expected derived record id, got %q", p.RecordID)
	}
	if p.MinExperienceYears == nil || *p.MinExperienceYears != 2 {
		t.Fatalf("expected normalized experience, got %v", p.MinExperienceYears)
	}
	if p.MinSalaryUSD == nil || *p.MinSalaryUSD != 61000 {
		t.Fatalf("expected normalized salary, got %v", p.MinSalaryUSD)
	}
}
