package domainfx

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"github.com/yurykabanov/organizer/pkg/domain"
)

var Module = fx.Options(
	fx.Provide(PlatformResolver),
	fx.Provide(LoadJobs),
	fx.Provide(DispatcherConfigProvider),
	fx.Provide(FileSystem),
	fx.Provide(StateTracker),
	fx.Provide(Mover),
	fx.Provide(Runner),
	fx.Provide(Dispatcher),
	fx.Invoke(func(
		lc fx.Lifecycle,
		shutdowner fx.Shutdowner,
		logger *logrus.Logger,
		config *DispatcherConfig,
		dispatcher *domain.Dispatcher,
		jobs []domain.Job,
	) {
		RunDispatcher(lc, shutdowner, logger, config, dispatcher, jobs)
	}),
)
