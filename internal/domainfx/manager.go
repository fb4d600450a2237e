package domainfx

import (
	"context"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/organizer/internal/configfx"
	"github.com/yurykabanov/organizer/pkg/domain"
	"github.com/yurykabanov/organizer/pkg/transfer"
)

const (
	ConfigWorkersCount = "workers.count"
)

type DispatcherConfig struct {
	Workers  int
	LockFile string
}

func DispatcherConfigProvider(v *viper.Viper) *DispatcherConfig {
	return &DispatcherConfig{
		Workers:  v.GetInt(ConfigWorkersCount),
		LockFile: v.GetString(configfx.ConfigLockFile),
	}
}

func FileSystem() domain.FileSystem {
	return transfer.New()
}

func StateTracker() *domain.StateTracker {
	return domain.NewStateTracker()
}

func Mover(logger *logrus.Logger, fs domain.FileSystem, recorder domain.PassRecorder) *domain.Mover {
	return domain.NewMover(logger, fs, recorder)
}

func Runner(logger *logrus.Logger, mover *domain.Mover, tracker *domain.StateTracker) *domain.Runner {
	return domain.NewRunner(logger, mover, tracker)
}

func Dispatcher(
	logger *logrus.Logger,
	runner *domain.Runner,
	fs domain.FileSystem,
	tracker *domain.StateTracker,
	config *DispatcherConfig,
) *domain.Dispatcher {
	return domain.NewDispatcher(logger, runner, fs, tracker, config.Workers)
}

type jobDispatcher interface {
	Run(ctx context.Context, jobs []domain.Job)
}

// RunDispatcher runs all jobs for the application lifetime while holding
// the single-instance lock. The application shuts down by itself once every
// job has finished (e.g. only Once jobs are configured).
func RunDispatcher(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	logger *logrus.Logger,
	config *DispatcherConfig,
	dispatcher jobDispatcher,
	jobs []domain.Job,
) {
	lock := flock.New(config.LockFile)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ok, err := lock.TryLock()
			if err != nil {
				cancel()
				return errors.Wrapf(err, "Unable to acquire lock %s", config.LockFile)
			}
			if !ok {
				cancel()
				return errors.Errorf("another instance is already running (lock %s is held)", config.LockFile)
			}

			logger.WithField("jobs", len(jobs)).Info("Starting dispatcher")

			go func() {
				defer close(done)

				dispatcher.Run(ctx, jobs)

				if ctx.Err() == nil {
					logger.Info("All jobs finished")

					if err := shutdowner.Shutdown(); err != nil {
						logger.WithError(err).Error("Unable to shut down")
					}
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) (err error) {
			defer func() {
				if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
					err = errors.Wrapf(unlockErr, "Unable to release lock %s", config.LockFile)
				}
			}()

			cancel()

			select {
			case <-done:
			case <-stopCtx.Done():
				return errors.Wrap(stopCtx.Err(), "Jobs did not stop in time")
			}

			logger.Info("Dispatcher stopped")

			return nil
		},
	})
}
