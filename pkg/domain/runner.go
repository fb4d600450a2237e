package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/appcontext"
)

type passRunner interface {
	Run(ctx context.Context, job Job) (Pass, error)
}

// Runner executes a job according to its strategy. Passes of one job are
// strictly sequential.
type Runner struct {
	logger  logrus.FieldLogger
	mover   passRunner
	tracker *StateTracker
}

func NewRunner(logger logrus.FieldLogger, mover passRunner, tracker *StateTracker) *Runner {
	return &Runner{
		logger:  logger,
		mover:   mover,
		tracker: tracker,
	}
}

// Run blocks until the job finishes. Long-running strategies return nil when
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context, job Job) error {
	ctx = appcontext.WithJobName(ctx, job.Name)
	defer r.tracker.Transition(job.Name, JobStateStopped)

	switch job.Strategy {
	case StrategyOnce:
		return r.pass(ctx, job)
	case StrategyTimer:
		return r.runTimer(ctx, job)
	case StrategyMonitor:
		return r.runMonitor(ctx, job)
	case StrategyCron:
		return r.runCron(ctx, job)
	}

	return errors.Wrapf(ErrInvalidExecutionMode, "%d", job.Strategy)
}

func (r *Runner) pass(ctx context.Context, job Job) error {
	r.tracker.Transition(job.Name, JobStateRunning)

	pass, err := r.mover.Run(ctx, job)
	r.tracker.PassFinished(pass, err)

	return err
}

// repeat runs a pass and swallows its error, the next tick or event retries.
func (r *Runner) repeat(ctx context.Context, job Job) {
	if err := r.pass(ctx, job); err != nil && ctx.Err() == nil {
		appcontext.LoggerFromContext(r.logger, ctx).WithError(err).Error("Pass failed")
	}
}

func (r *Runner) runTimer(ctx context.Context, job Job) error {
	logger := appcontext.LoggerFromContext(r.logger, ctx)
	logger.WithField("interval", job.Interval.String()).Info("Starting timer")

	for {
		r.repeat(ctx, job)

		r.tracker.Transition(job.Name, JobStateWaiting)

		timer := time.NewTimer(job.Interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Timer stopped")
			return nil
		case <-timer.C:
		}
	}
}

func (r *Runner) runMonitor(ctx context.Context, job Job) error {
	logger := appcontext.LoggerFromContext(r.logger, ctx)

	w, err := newWatcher(logger, job.SourceDirectory)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.WithField("source", job.SourceDirectory).Info("Watching source directory")

	for {
		r.tracker.Transition(job.Name, JobStateWatching)

		err := w.Next(ctx)
		if ctx.Err() != nil {
			logger.Info("Monitor stopped")
			return nil
		}
		if err != nil {
			return err
		}

		r.repeat(ctx, job)
	}
}

func (r *Runner) runCron(ctx context.Context, job Job) error {
	logger := appcontext.LoggerFromContext(r.logger, ctx)

	// ticks that arrive while a pass is running are dropped
	ticks := make(chan struct{}, 1)

	c := cron.New()
	err := c.AddFunc(job.CronSpec, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return errors.Wrapf(ErrInvalidJob, "cron spec %q: %v", job.CronSpec, err)
	}

	logger.WithField("spec", job.CronSpec).Info("Starting cron")
	c.Start()
	defer c.Stop()

	for {
		r.tracker.Transition(job.Name, JobStateWaiting)

		select {
		case <-ctx.Done():
			logger.Info("Cron stopped")
			return nil
		case <-ticks:
			r.repeat(ctx, job)
		}
	}
}
