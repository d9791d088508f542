package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/itledger/itledger/internal/jobs"
)

const (
	// TaskDashboardWarmup precomputes the unrestricted dashboard aggregate.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload carries scheduling metadata.
type DashboardWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// DashboardWarmer is implemented by the dashboard service.
type DashboardWarmer interface {
	Warm(ctx context.Context) error
}

// NewDashboardWarmupTask constructs an Asynq task for the cache warmup.
func NewDashboardWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(DashboardWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, body, asynq.Queue(QueueDefault)), nil
}

// NewDashboardWarmupHandler refreshes the cached dashboard aggregate.
func NewDashboardWarmupHandler(warmer DashboardWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload DashboardWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskDashboardWarmup)
		if err := warmer.Warm(ctx); err != nil {
			logger.Error("dashboard warmup failed", slog.Any("error", err))
			return tracker.End(err)
		}
		logger.Info("dashboard cache warmed", slog.Time("scheduled_for", payload.ScheduledFor))
		return tracker.End(nil)
	}
}
