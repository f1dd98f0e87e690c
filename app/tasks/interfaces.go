package tasks

import (
	"context"

	"github.com/lysyi3m/news-comb/app/news"
)

// TaskSchedulerInterface is what main needs from the background scheduler.
//
//	scheduler := NewScheduler(service, interval, 1)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Refresher recomputes the aggregate and replaces the cached value.
type Refresher interface {
	Refresh(ctx context.Context) (*news.Aggregated, error)
}
