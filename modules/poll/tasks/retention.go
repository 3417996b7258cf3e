package tasks

import (
	"context"
	"time"

	"slotpoll/core/logger"
	"slotpoll/modules/poll/service"

	"github.com/hibiken/asynq"
)

// TypePollPurge is the task type for the retention sweep.
const TypePollPurge = "poll:purge_ended"

// RetentionWorker periodically deletes polls whose last date is older than
// the configured retention window. Retention is opt-in: with RETENTION_DAYS=0
// this worker is never started and polls live forever.
type RetentionWorker struct {
	svc       service.PollServiceInterface
	days      int
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

func NewRetentionWorker(redisOpt asynq.RedisClientOpt, svc service.PollServiceInterface, days int) *RetentionWorker {
	return &RetentionWorker{
		svc:  svc,
		days: days,
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: 1,
		}),
		scheduler: asynq.NewScheduler(redisOpt, nil),
	}
}

// Start launches the task server and the daily schedule.
func (w *RetentionWorker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePollPurge, w.handlePurge)

	if err := w.server.Start(mux); err != nil {
		return err
	}

	if _, err := w.scheduler.Register("@every 24h", asynq.NewTask(TypePollPurge, nil)); err != nil {
		w.server.Shutdown()
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return err
	}

	logger.Info("RetentionWorker:Started", "retention_days", w.days)
	return nil
}

func (w *RetentionWorker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *RetentionWorker) handlePurge(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().AddDate(0, 0, -w.days)

	deleted, appErr := w.svc.PurgeEndedBefore(ctx, cutoff)
	if appErr != nil {
		logger.Error("RetentionWorker:handlePurge", "error", appErr)
		return appErr
	}

	logger.Info("RetentionWorker:handlePurge:Done", "deleted", deleted)
	return nil
}
