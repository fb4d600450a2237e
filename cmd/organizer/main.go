package main

import (
	"time"

	"go.uber.org/fx"

	"github.com/yurykabanov/organizer/internal/configfx"
	"github.com/yurykabanov/organizer/internal/domainfx"
	"github.com/yurykabanov/organizer/internal/loggerfx"
	"github.com/yurykabanov/organizer/internal/metricsfx"
	"github.com/yurykabanov/organizer/internal/sqlfx"
)

func main() {
	logger := loggerfx.Logger()

	app := fx.New(
		fx.StartTimeout(15*time.Second),
		fx.StopTimeout(30*time.Second),

		fx.Logger(logger),

		loggerfx.Module,
		configfx.Module,
		sqlfx.Module,
		metricsfx.Module,
		domainfx.Module,
	)

	app.Run()
}
