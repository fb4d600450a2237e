package domain

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/appcontext"
)

type jobRunner interface {
	Run(ctx context.Context, job Job) error
}

// Dispatcher runs Once jobs inline and binds every long-running job to a
// worker of its own for the worker's whole lifetime.
type Dispatcher struct {
	logger  logrus.FieldLogger
	runner  jobRunner
	fs      FileSystem
	tracker *StateTracker
	workers int
}

func NewDispatcher(
	logger logrus.FieldLogger,
	runner jobRunner,
	fs FileSystem,
	tracker *StateTracker,
	workers int,
) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		runner:  runner,
		fs:      fs,
		tracker: tracker,
		workers: workers,
	}
}

// Run returns once every job has finished, which for long-running jobs means
// after ctx is cancelled and all workers have stopped.
func (d *Dispatcher) Run(ctx context.Context, jobs []Job) {
	d.bootstrap(jobs)

	var long []Job

	for _, job := range jobs {
		d.tracker.Register(job)

		if job.Strategy.LongRunning() {
			long = append(long, job)
		}
	}

	for _, job := range jobs {
		if job.Strategy.LongRunning() {
			continue
		}

		if ctx.Err() != nil {
			d.tracker.Transition(job.Name, JobStateStopped)
			continue
		}

		if err := d.runner.Run(ctx, job); err != nil {
			appcontext.LoggerFromContext(d.logger, appcontext.WithJobName(ctx, job.Name)).
				WithError(err).Error("Job failed")
		}
	}

	if len(long) == 0 {
		return
	}

	d.runWorkers(ctx, long)
}

// bootstrap creates every target directory before the first pass of any job.
func (d *Dispatcher) bootstrap(jobs []Job) {
	for _, job := range jobs {
		for _, target := range job.Rules.Targets() {
			if err := d.fs.MkdirAll(target); err != nil {
				d.logger.WithError(err).WithFields(logrus.Fields{
					"job":    job.Name,
					"target": target,
				}).Error("Unable to create target directory")
			}
		}
	}
}

func (d *Dispatcher) runWorkers(ctx context.Context, jobs []Job) {
	queue := make(chan Job, len(jobs))
	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	workers := max(d.workers, len(jobs))

	picked := &sync.WaitGroup{}
	picked.Add(len(jobs))

	done := &sync.WaitGroup{}
	done.Add(workers)

	d.logger.WithFields(logrus.Fields{
		"workers": workers,
		"jobs":    len(jobs),
	}).Info("Starting workers")

	for i := 1; i <= workers; i++ {
		go d.work(appcontext.WithWorkerId(ctx, i), queue, picked, done)
	}

	allDone := waitChan(done)

	select {
	case <-waitChan(picked):
		d.logger.Info("All long-running jobs are picked up")
	case <-ctx.Done():
	}

	select {
	case <-allDone:
		return
	case <-ctx.Done():
	}

	d.logger.Info("Waiting for workers to stop")
	<-allDone
}

func (d *Dispatcher) work(ctx context.Context, queue <-chan Job, picked, done *sync.WaitGroup) {
	defer done.Done()

	for job := range queue {
		picked.Done()

		if ctx.Err() != nil {
			d.tracker.Transition(job.Name, JobStateStopped)
			continue
		}

		err := d.runner.Run(ctx, job)
		if err != nil {
			appcontext.LoggerFromContext(d.logger, appcontext.WithJobName(ctx, job.Name)).
				WithError(err).Error("Job stopped")
		}
	}
}

func waitChan(wg *sync.WaitGroup) <-chan struct{} {
	ch := make(chan struct{})

	go func() {
		wg.Wait()
		close(ch)
	}()

	return ch
}
