package database

import (
	"fmt"
	"time"
)

var _ FetchLogRepository = (*FetchLogRepo)(nil)

type FetchLogRepo struct {
	db *DB
}

func NewFetchLogRepository(db *DB) *FetchLogRepo {
	return &FetchLogRepo{db: db}
}

func (r *FetchLogRepo) RecordRun(run FetchRun) error {
	_, err := r.db.Exec(`
		INSERT INTO fetch_runs (source, started_at, duration_ms, item_count, error)
		VALUES (?, ?, ?, ?, ?)
	`, run.Source, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Duration.Milliseconds(), run.ItemCount, run.Error)
	if err != nil {
		return fmt.Errorf("failed to record fetch run: %w", err)
	}
	return nil
}

// GetLatestRuns returns the most recent run of every source, ordered by source.
func (r *FetchLogRepo) GetLatestRuns() ([]FetchRun, error) {
	rows, err := r.db.Query(`
		SELECT f.id, f.source, f.started_at, f.duration_ms, f.item_count, f.error
		FROM fetch_runs f
		WHERE f.id = (SELECT MAX(id) FROM fetch_runs WHERE source = f.source)
		ORDER BY f.source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest fetch runs: %w", err)
	}
	defer rows.Close()

	var runs []FetchRun
	for rows.Next() {
		var run FetchRun
		var startedAt string
		var durationMs int64
		if err := rows.Scan(&run.ID, &run.Source, &startedAt, &durationMs, &run.ItemCount, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan fetch run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at %q: %w", startedAt, err)
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fetch runs: %w", err)
	}

	return runs, nil
}

func (r *FetchLogRepo) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM fetch_runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fetch runs: %w", err)
	}
	return count, nil
}
