package loggerfx

import (
	"context"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ConfigLogLevel      = "log.level"
	ConfigLogFormat     = "log.format"
	ConfigLogFile       = "log.file"
	ConfigLogMaxSize    = "log.max_size"
	ConfigLogMaxBackups = "log.max_backups"
	ConfigLogMaxAge     = "log.max_age"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
}

func Logger() *logrus.Logger {
	return logger
}

type LoggerConfig struct {
	Level  string
	Format string

	// rotated file output, stderr when File is empty
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func LoggerConfigProvider(v *viper.Viper) *LoggerConfig {
	return &LoggerConfig{
		Level:      v.GetString(ConfigLogLevel),
		Format:     v.GetString(ConfigLogFormat),
		File:       v.GetString(ConfigLogFile),
		MaxSize:    v.GetInt(ConfigLogMaxSize),
		MaxBackups: v.GetInt(ConfigLogMaxBackups),
		MaxAge:     v.GetInt(ConfigLogMaxAge),
	}
}

func ConfigureLogger(logger *logrus.Logger, config *LoggerConfig) {
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	switch config.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		fallthrough
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{})
	}

	if config.File == "" {
		logger.SetOutput(os.Stderr)
		return
	}

	logger.SetOutput(&lumberjack.Logger{
		Filename:   config.File,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
	})
}

// CloseLogFile flushes the rotated log file when the application stops.
func CloseLogFile(lc fx.Lifecycle, logger *logrus.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if file, ok := logger.Out.(*lumberjack.Logger); ok {
				return file.Close()
			}
			return nil
		},
	})
}

// DefaultLoggerAdapter routes messages of the standard library logger
// (e.g. http.Server errors) into logrus at error level.
func DefaultLoggerAdapter(logger *logrus.Logger) *log.Logger {
	return log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0)
}
