// Package schedule reruns a task on a cron schedule until its context is
// cancelled (--every).
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/backmassage/reelorder/internal/logging"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

const jobName = "playlists"

// Validate reports whether expr is a valid five-field cron expression.
func Validate(expr string) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	defer func() { _ = s.Shutdown() }()
	if _, err := s.NewJob(gocron.CronJob(expr, false), gocron.NewTask(func() {})); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return nil
}

// Repeat runs task on the cron schedule expr until ctx is done. Runs never
// overlap: a tick that arrives while a run is active is skipped. With
// runOnStart the first run starts immediately.
func Repeat(ctx context.Context, expr string, runOnStart bool, log *logging.Logger, task Task) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	var job gocron.Job
	opts := []gocron.JobOption{
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if runOnStart {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	job, err = s.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			start := time.Now()
			if err := task(ctx); err != nil {
				log.Error("Scheduled run failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
			}
			if next, err := job.NextRun(); err == nil && ctx.Err() == nil {
				log.Info("Next run at %s", next.Format(time.DateTime))
			}
		}),
		opts...,
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("invalid schedule %q: %w", expr, err)
	}

	log.Info("Scheduled %q", expr)
	s.Start()
	<-ctx.Done()

	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}
