package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type reminderSweeper interface {
	SendFeedbackReminders(ctx context.Context) (int, error)
}

// ReminderScheduler runs the feedback reminder sweep once a day at a
// fixed local hour.
type ReminderScheduler struct {
	sweeper   reminderSweeper
	hourOfDay int
	logger    *zap.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewReminderScheduler constructs a scheduler sweeping at hourOfDay
// (0-23) local time.
func NewReminderScheduler(sweeper reminderSweeper, hourOfDay int, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hourOfDay < 0 || hourOfDay > 23 {
		hourOfDay = 17
	}
	return &ReminderScheduler{sweeper: sweeper, hourOfDay: hourOfDay, logger: logger}
}

// Start launches the scheduling goroutine.
func (r *ReminderScheduler) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.run(ctx)
	r.logger.Sugar().Infow("reminder scheduler started", "hour", r.hourOfDay)
}

// Stop cancels the scheduler and waits for the goroutine to exit.
func (r *ReminderScheduler) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.logger.Info("reminder scheduler stopped")
}

func (r *ReminderScheduler) run(ctx context.Context) {
	defer close(r.done)
	for {
		timer := time.NewTimer(untilNext(time.Now(), r.hourOfDay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			queued, err := r.sweeper.SendFeedbackReminders(ctx)
			if err != nil {
				r.logger.Warn("reminder sweep failed", zap.Error(err))
				continue
			}
			r.logger.Info("reminder sweep done", zap.Int("queued", queued))
		}
	}
}

// untilNext returns the duration from now to the next occurrence of
// hourOfDay, rolling to tomorrow when today's slot already passed.
func untilNext(now time.Time, hourOfDay int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourOfDay, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
