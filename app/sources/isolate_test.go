package sources

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/news"
)

type recordingRuns struct {
	mu   sync.Mutex
	runs []database.FetchRun
}

func (r *recordingRuns) RecordRun(run database.FetchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *recordingRuns) GetLatestRuns() ([]database.FetchRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]database.FetchRun(nil), r.runs...), nil
}

func (r *recordingRuns) GetRunCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs), nil
}

func TestIsolator_Success(t *testing.T) {
	runs := &recordingRuns{}
	isolator := NewIsolator(time.Second, runs)

	items := isolator.Run(context.Background(), "ok", 0, func(ctx context.Context) ([]news.Item, error) {
		return []news.Item{{Title: "a"}, {Title: "b"}}, nil
	})

	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
	if len(runs.runs) != 1 {
		t.Fatalf("Expected 1 recorded run, got %d", len(runs.runs))
	}
	if !runs.runs[0].Succeeded() || runs.runs[0].ItemCount != 2 || runs.runs[0].Source != "ok" {
		t.Errorf("Unexpected recorded run: %+v", runs.runs[0])
	}
}

func TestIsolator_ErrorYieldsNothing(t *testing.T) {
	runs := &recordingRuns{}
	isolator := NewIsolator(time.Second, runs)

	items := isolator.Run(context.Background(), "broken", 0, func(ctx context.Context) ([]news.Item, error) {
		return []news.Item{{Title: "partial"}}, errors.New("boom")
	})

	if items != nil {
		t.Errorf("Expected nil items on error, got %v", items)
	}
	if len(runs.runs) != 1 || runs.runs[0].Succeeded() || runs.runs[0].ItemCount != 0 {
		t.Errorf("Expected one failed run with 0 items, got %+v", runs.runs)
	}
}

func TestIsolator_PanicRecovered(t *testing.T) {
	isolator := NewIsolator(time.Second, nil)

	items := isolator.Run(context.Background(), "panicky", 0, func(ctx context.Context) ([]news.Item, error) {
		panic("unexpected payload")
	})

	if items != nil {
		t.Errorf("Expected nil items after panic, got %v", items)
	}
}

func TestIsolator_AbandonsFetchIgnoringContext(t *testing.T) {
	isolator := NewIsolator(50*time.Millisecond, nil)
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	items := isolator.Run(context.Background(), "stuck", 0, func(ctx context.Context) ([]news.Item, error) {
		<-release
		return []news.Item{{Title: "late"}}, nil
	})
	elapsed := time.Since(start)

	if items != nil {
		t.Errorf("Expected nil items after timeout, got %v", items)
	}
	if elapsed > time.Second {
		t.Errorf("Expected Run to return near the timeout, took %v", elapsed)
	}
}

func TestIsolator_PerSourceTimeoutOverridesDefault(t *testing.T) {
	isolator := NewIsolator(time.Hour, nil)

	start := time.Now()
	items := isolator.Run(context.Background(), "slow", 50*time.Millisecond, func(ctx context.Context) ([]news.Item, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	if items != nil {
		t.Errorf("Expected nil items, got %v", items)
	}
	if time.Since(start) > time.Second {
		t.Errorf("Expected per-source timeout to apply, took %v", time.Since(start))
	}
}
