package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CacheSweepJobName is the name of the expired report cache sweep job
const CacheSweepJobName = "cache_sweep"

// DefaultSweepTimeout bounds a single sweep run.
const DefaultSweepTimeout = 2 * time.Minute

// ExpiredSweeper deletes expired report cache rows. The database-backed
// cache implements it; other backends expire entries on their own.
type ExpiredSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// CacheSweepJob removes expired rows from the report cache table. Expired
// rows are already treated as misses on read, the sweep only keeps the
// table from growing without bound.
type CacheSweepJob struct {
	sweeper ExpiredSweeper
	logger  *zap.Logger
	timeout time.Duration
}

// NewCacheSweepJob creates a cache sweep job.
func NewCacheSweepJob(sweeper ExpiredSweeper, logger *zap.Logger, timeout time.Duration) *CacheSweepJob {
	if timeout <= 0 {
		timeout = DefaultSweepTimeout
	}
	return &CacheSweepJob{
		sweeper: sweeper,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one sweep. This is called by the scheduler according to the
// configured cron expression.
func (j *CacheSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	deleted, err := j.sweeper.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("report cache sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("report cache sweep completed",
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(start)))
}

// RegisterCacheSweepJob registers the sweep with the scheduler under the
// given cron expression.
func RegisterCacheSweepJob(scheduler *Scheduler, sweeper ExpiredSweeper, logger *zap.Logger, cronExpr string) error {
	job := NewCacheSweepJob(sweeper, logger, DefaultSweepTimeout)
	return scheduler.AddJob(CacheSweepJobName, cronExpr, job.Run)
}
