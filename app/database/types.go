package database

import (
	"time"
)

// FetchRun is one adapter invocation against one source.
type FetchRun struct {
	ID        int64
	Source    string
	StartedAt time.Time
	Duration  time.Duration
	ItemCount int
	Error     string // empty on success
}

func (r FetchRun) Succeeded() bool {
	return r.Error == ""
}
