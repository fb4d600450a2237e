package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/yurykabanov/organizer/internal/configfx"
	"github.com/yurykabanov/organizer/internal/sqlfx"
	"github.com/yurykabanov/organizer/pkg/storage"
	"github.com/yurykabanov/organizer/pkg/supervisor"
	"github.com/yurykabanov/organizer/pkg/util"
)

type commandContext struct {
	configFlag *string

	logger *logrus.Logger

	configOnce sync.Once
	config     *viper.Viper
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	return &commandContext{
		configFlag: configFlag,
		logger:     logger,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}

	path := strings.TrimSpace(*c.configFlag)
	if path == "" {
		return ""
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

func (c *commandContext) ensureConfig() (*viper.Viper, error) {
	c.configOnce.Do(func() {
		flags := configfx.PFlags()

		if path := c.configPath(); path != "" {
			if err := flags.Set(configfx.FlagConfig, path); err != nil {
				c.configErr = err
				return
			}
		}

		c.config, c.configErr = configfx.ViperProvider(c.logger, flags)
	})

	return c.config, c.configErr
}

// supervisor leaves Executable empty, only start needs the daemon binary.
func (c *commandContext) supervisor() (*supervisor.Supervisor, error) {
	v, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var args []string
	if path := c.configPath(); path != "" {
		args = append(args, "--"+configfx.FlagConfig, path)
	}

	return supervisor.New("", args, v.GetString(configfx.ConfigPidFile), v.GetString(configfx.ConfigLockFile)), nil
}

// openJournal opens the move journal read-only. A nil repository means the
// journal is disabled or has not been created yet.
func (c *commandContext) openJournal() (*storage.JournalRepository, func(), error) {
	v, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	if !v.GetBool(sqlfx.ConfigJournalEnabled) {
		return nil, func() {}, nil
	}

	dsn := v.GetString(sqlfx.ConfigJournalDSN)
	if _, err := os.Stat(strings.TrimPrefix(dsn, "file:")); err != nil {
		return nil, func() {}, nil
	}

	db, err := sqlx.Open("sqlite3", readOnlyDSN(dsn))
	if err != nil {
		return nil, nil, errors.Wrap(err, "Unable to open journal")
	}

	db.MapperFunc(util.CamelToSnakeCase)

	return storage.NewJournalRepository(db), func() { db.Close() }, nil
}

func readOnlyDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}

	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	return dsn + "?mode=ro"
}
