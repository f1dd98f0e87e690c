package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/news"
)

// Isolator runs one source fetch under a deadline and turns every failure
// mode (error, timeout, panic) into a logged, empty result.
type Isolator struct {
	timeout time.Duration
	runs    database.FetchLogRepository // optional
}

func NewIsolator(timeout time.Duration, runs database.FetchLogRepository) *Isolator {
	return &Isolator{
		timeout: timeout,
		runs:    runs,
	}
}

// Run returns the items produced by fetch, or nil on failure. The caller is
// never kept waiting past the timeout: if fetch ignores its context, its
// result is discarded when it eventually arrives.
func (i *Isolator) Run(ctx context.Context, source string, timeout time.Duration, fetch FetchFunc) []news.Item {
	if timeout <= 0 {
		timeout = i.timeout
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		items []news.Item
		err   error
	}

	startedAt := time.Now()
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := fetch(fetchCtx)
		done <- result{items: items, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-fetchCtx.Done():
		res = result{err: fmt.Errorf("fetch abandoned: %w", fetchCtx.Err())}
	}

	i.record(source, startedAt, len(res.items), res.err)

	if res.err != nil {
		slog.Warn("Source fetch failed", "source", source, "duration", time.Since(startedAt), "error", res.err)
		return nil
	}

	slog.Debug("Source fetched", "source", source, "items", len(res.items), "duration", time.Since(startedAt))
	return res.items
}

func (i *Isolator) record(source string, startedAt time.Time, count int, fetchErr error) {
	if i.runs == nil {
		return
	}

	run := database.FetchRun{
		Source:    source,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		ItemCount: count,
	}
	if fetchErr != nil {
		run.ItemCount = 0
		run.Error = fetchErr.Error()
	}

	if err := i.runs.RecordRun(run); err != nil {
		slog.Error("Failed to record fetch run", "source", source, "error", err)
	}
}
