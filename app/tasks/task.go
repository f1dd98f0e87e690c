package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

type TaskType string

const (
	TaskTypeRefreshNews TaskType = "refresh_news"
)

const (
	DefaultMaxRetries = 3
)

var taskSeq atomic.Uint64

// TaskInterface is one unit of background work. A task is owned by a single
// worker at a time, so its bookkeeping needs no locking.
type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	GetDuration() time.Duration
	Attempts() int
	NextRetry(base, limit time.Duration) (time.Duration, bool)
}

// Task carries identity and retry state; concrete tasks embed it.
type Task struct {
	ID         string
	Type       TaskType
	MaxRetries int

	attempts  int
	retries   int
	startedAt time.Time
}

func NewTask(taskType TaskType) Task {
	return Task{
		ID:         fmt.Sprintf("%s-%d", taskType, taskSeq.Add(1)),
		Type:       taskType,
		MaxRetries: DefaultMaxRetries,
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

// Start begins a new attempt.
func (t *Task) Start() {
	t.attempts++
	t.startedAt = time.Now()
}

// GetDuration is the time spent in the current attempt.
func (t *Task) GetDuration() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	return time.Since(t.startedAt)
}

func (t *Task) Attempts() int {
	return t.attempts
}

// NextRetry uses up one retry and returns how long to wait before it:
// base doubled per retry already taken, capped at limit. It reports false
// once MaxRetries are spent.
func (t *Task) NextRetry(base, limit time.Duration) (time.Duration, bool) {
	if t.retries >= t.MaxRetries {
		return 0, false
	}
	t.retries++

	delay := base << uint(t.retries-1)
	if delay <= 0 || delay > limit {
		delay = limit
	}
	return delay, true
}
