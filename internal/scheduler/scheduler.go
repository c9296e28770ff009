package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/finwatch/ipo-alert/pkg/logger"
)

// Job is one complete fetch-evaluate-notify invocation.
type Job func(ctx context.Context) error

// NextRun returns the next occurrence of hour:minute in now's location:
// today if now is strictly before it, otherwise tomorrow. time.Date
// normalizes across DST transitions.
func NextRun(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.Before(target) {
		return target
	}
	return target.AddDate(0, 0, 1)
}

// Trigger fires a job once per day at a fixed wall-clock time in a fixed
// timezone. Strictly sequential: the next sleep starts only after the
// current invocation returns, so runs never overlap.
type Trigger struct {
	loc    *time.Location
	hour   int
	minute int
	job    Job

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) bool
}

func NewTrigger(loc *time.Location, hour, minute int, job Job) *Trigger {
	t := &Trigger{
		loc:    loc,
		hour:   hour,
		minute: minute,
		job:    job,
		now:    time.Now,
	}
	t.wait = t.sleep
	return t
}

// Start blocks until ctx is cancelled. A failed or panicking run is
// logged and the loop carries on to the next scheduled occurrence.
func (t *Trigger) Start(ctx context.Context) {
	logger.Info("scheduler started",
		zap.String("timezone", t.loc.String()),
		zap.Int("hour", t.hour),
		zap.Int("minute", t.minute))

	for {
		now := t.now().In(t.loc)
		target := NextRun(now, t.hour, t.minute)

		logger.Info("sleeping until next run",
			zap.Time("target", target),
			zap.Duration("wait", target.Sub(now)))

		if !t.wait(ctx, target.Sub(now)) {
			logger.Info("scheduler stopped")
			return
		}

		t.fire(ctx)
	}
}

func (t *Trigger) fire(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("run panicked", zap.Any("panic", r))
		}
	}()

	if err := t.job(ctx); err != nil {
		logger.Error("run failed", zap.Error(err))
	}
}

// sleep returns false when ctx was cancelled before the deadline.
func (t *Trigger) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
