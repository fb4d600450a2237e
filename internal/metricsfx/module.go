package metricsfx

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(ServerConfigProvider),
	fx.Provide(Router),
	fx.Provide(Server),
	fx.Invoke(RunServer),

	fx.Provide(PassMetricHandler),
	fx.Provide(JobStateHandler),
	fx.Invoke(RegisterHandlers),
)
