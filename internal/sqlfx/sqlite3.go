package sqlfx

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/yurykabanov/organizer/pkg/storage"
	"github.com/yurykabanov/organizer/pkg/util"
)

const (
	ConfigJournalEnabled    = "journal.enabled"
	ConfigJournalDSN        = "journal.dsn"
	ConfigJournalMigrations = "journal.migrations"
)

type SqliteConfig struct {
	Enabled        bool
	DSN            string
	DatabaseName   string
	MigrationsPath string
}

func SqliteConfigProvider(v *viper.Viper) (*SqliteConfig, error) {
	config := &SqliteConfig{
		Enabled:        v.GetBool(ConfigJournalEnabled),
		DSN:            v.GetString(ConfigJournalDSN),
		DatabaseName:   "organizer",
		MigrationsPath: v.GetString(ConfigJournalMigrations),
	}

	if config.Enabled && config.DSN == "" {
		return nil, errors.New("journal.dsn is required when the journal is enabled")
	}

	return config, nil
}

// OpenSqliteDatabase returns nil when the journal is disabled.
func OpenSqliteDatabase(config *SqliteConfig, logger *logrus.Logger) (*sqlx.DB, error) {
	if !config.Enabled {
		logger.Info("Move journal is disabled")
		return nil, nil
	}

	logger.WithField("dsn", config.DSN).Debug("Connecting to DB with DSN")

	db, err := sqlx.Open("sqlite3", config.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to connect to DB")
	}

	// sqlite allows a single writer, passes of concurrent jobs queue up here
	db.SetMaxOpenConns(1)
	db.MapperFunc(util.CamelToSnakeCase)

	if err := storage.Migrate(db, config.DatabaseName, config.MigrationsPath); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func CloseSqliteDatabase(lc fx.Lifecycle, db *sqlx.DB) {
	if db == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
}
