package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	queueSize      = 16
	taskTimeout    = 5 * time.Minute
	maxRetryDelay  = 30 * time.Second
	baseRetryDelay = time.Second
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler keeps the aggregate warm: it refreshes once at start and then on
// every tick, so readers rarely pay for a cold aggregation.
type Scheduler struct {
	refresher   Refresher
	interval    time.Duration
	workerCount int
	retryDelay  time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(refresher Refresher, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	if workerCount <= 0 {
		workerCount = 1
	}

	return &Scheduler{
		refresher:   refresher,
		interval:    interval,
		workerCount: workerCount,
		retryDelay:  baseRetryDelay,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueRefresh()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueRefresh()
			}
		}
	}()

	slog.Info("Scheduler started", "interval", s.interval, "workers", s.workerCount)
}

// Stop cancels running tasks and waits for the workers to exit. Pending
// retries are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueRefresh() {
	if err := s.EnqueueTask(NewRefreshNewsTask(s.refresher)); err != nil {
		slog.Warn("Failed to enqueue RefreshNewsTask", "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "attempt", task.Attempts(), "error", err)

	retryDelay, ok := task.NextRetry(s.retryDelay, maxRetryDelay)
	if !ok {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "attempts", task.Attempts(), "last_error", err)
		return
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "attempt", task.Attempts()+1, "delay", retryDelay.String())

	go func() {
		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "attempts", task.Attempts(), "error", retryErr)
			}
		}
	}()
}
