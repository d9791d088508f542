package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/itledger/itledger/internal/jobs"
)

const (
	// TaskAuthPurgeSessions removes expired login session records.
	TaskAuthPurgeSessions = "auth:purge_sessions"
)

// PurgeSessionsPayload carries scheduling metadata.
type PurgeSessionsPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewPurgeSessionsTask constructs an Asynq task for the session purge.
func NewPurgeSessionsTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(PurgeSessionsPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuthPurgeSessions, body, asynq.Queue(QueueDefault)), nil
}

// NewPurgeSessionsHandler deletes login sessions whose expiry has passed.
func NewPurgeSessionsHandler(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload PurgeSessionsPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track(TaskAuthPurgeSessions)
		tag, err := pool.Exec(ctx, `DELETE FROM login_sessions WHERE expires_at < now()`)
		if err != nil {
			logger.Error("session purge failed", slog.Any("error", err))
			return tracker.End(err)
		}
		purged := tag.RowsAffected()
		metrics.AddPurgedSessions(purged)
		logger.Info("login sessions purged",
			slog.Int64("purged", purged),
			slog.Time("scheduled_for", payload.ScheduledFor))
		return tracker.End(nil)
	}
}
