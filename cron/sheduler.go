package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// slogAdapter lets robfig/cron report through slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (a slogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug("cron: "+msg, keysAndValues...)
}

func (a slogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}

// StartCron schedules every registered job and starts the scheduler. Job
// runs get ctx; a panicking job is recovered and logged.
func StartCron(ctx context.Context, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.Default()
	}
	adapter := slogAdapter{logger: logger}
	c := cron.New(cron.WithLogger(adapter), cron.WithChain(cron.Recover(adapter)))

	for name, j := range Jobs() {
		name, run := name, j.Run
		_, err := c.AddFunc(j.Schedule, func() {
			start := time.Now()
			if err := run(ctx); err != nil {
				logger.Error("cron job failed", "job", name, "err", err, "took", time.Since(start))
				return
			}
			logger.Info("cron job finished", "job", name, "took", time.Since(start))
		})
		if err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
		logger.Info("cron job scheduled", "job", name, "schedule", j.Schedule)
	}
	c.Start()
	return c, nil
}
