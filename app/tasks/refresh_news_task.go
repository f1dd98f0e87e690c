package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type RefreshNewsTask struct {
	Task
	refresher Refresher
}

func NewRefreshNewsTask(refresher Refresher) *RefreshNewsTask {
	return &RefreshNewsTask{
		Task:      NewTask(TaskTypeRefreshNews),
		refresher: refresher,
	}
}

func (t *RefreshNewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	aggregated, err := t.refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh aggregated news: %w", err)
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"attempt", t.Attempts(),
		"duration", t.GetDuration(),
		"turkish", len(aggregated.Turkish),
		"global", len(aggregated.Global),
		"all", len(aggregated.All))

	return nil
}
