package metricsfx

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/organizer/pkg/http/middleware"
)

const (
	ConfigServerEnabled      = "server.enabled"
	ConfigServerAddress      = "server.address"
	ConfigServerTimeoutRead  = "server.timeout.read"
	ConfigServerTimeoutWrite = "server.timeout.write"
	ConfigServerLogRequests  = "server.log.requests"
)

// ServerConfig describes the optional status server. It is off by default:
// the organizer is a desktop utility first.
type ServerConfig struct {
	Enabled      bool
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LogRequests  bool
}

func ServerConfigProvider(v *viper.Viper) (*ServerConfig, error) {
	config := &ServerConfig{
		Enabled:      v.GetBool(ConfigServerEnabled),
		Address:      v.GetString(ConfigServerAddress),
		ReadTimeout:  v.GetDuration(ConfigServerTimeoutRead),
		WriteTimeout: v.GetDuration(ConfigServerTimeoutWrite),
		LogRequests:  v.GetBool(ConfigServerLogRequests),
	}

	if config.Enabled && config.Address == "" {
		return nil, errors.Errorf("%s is required when the server is enabled", ConfigServerAddress)
	}

	return config, nil
}

func Router() *mux.Router {
	return mux.NewRouter()
}

// Server wraps the router into request id and (optionally) request logging
// middlewares. Request ids are assigned first so that log entries carry them.
func Server(config *ServerConfig, logger *logrus.Logger, errorLog *log.Logger, router *mux.Router) *http.Server {
	var h http.Handler = router

	if config.LogRequests {
		h = middleware.WithRequestLogging(h, logger)
	}

	return &http.Server{
		Addr:         config.Address,
		Handler:      middleware.WithRequestId(h, middleware.DefaultRequestIdProvider),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		ErrorLog:     errorLog,
	}
}

// RunServer binds the address on application start, so a busy port fails
// the start instead of being reported later.
func RunServer(lc fx.Lifecycle, logger *logrus.Logger, config *ServerConfig, server *http.Server) {
	if !config.Enabled {
		logger.Debug("Status server is disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			listener, err := net.Listen("tcp", config.Address)
			if err != nil {
				return errors.Wrapf(err, "Unable to listen on %s", config.Address)
			}

			logger.WithField("address", listener.Addr().String()).Info("Status server started")

			go func() {
				if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
					logger.WithError(err).Error("Status server failed")
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
