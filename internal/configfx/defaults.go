package configfx

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	ConfigLockFile = "lock.file"
	ConfigPidFile  = "pid.file"
)

// SetDefaults registers defaults for every scalar key; job descriptors have
// their defaults applied when they are decoded.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.address", "127.0.0.1:9190")
	v.SetDefault("server.timeout.read", 5*time.Second)
	v.SetDefault("server.timeout.write", 10*time.Second)
	v.SetDefault("server.log.requests", false)

	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.dsn", "./organizer.db")
	v.SetDefault("journal.migrations", "")

	v.SetDefault("workers.count", 0)

	v.SetDefault(ConfigLockFile, filepath.Join(os.TempDir(), "organizer.lock"))
	v.SetDefault(ConfigPidFile, filepath.Join(os.TempDir(), "organizer.pid"))
}

type defaultTargetFolder struct {
	TargetFolder string   `toml:"target_folder"`
	FileTypes    []string `toml:"file_types"`
}

type defaultSettings struct {
	Name              string                `toml:"name"`
	SourcePath        string                `toml:"source_path"`
	DaysAgo           int                   `toml:"days_ago"`
	ExecutionMode     string                `toml:"execution_mode"`
	ExecutionInterval int                   `toml:"execution_interval"`
	FileConflict      string                `toml:"file_conflict"`
	TargetFolders     []defaultTargetFolder `toml:"target_folders"`
}

type defaultLog struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type defaultConfig struct {
	Log      defaultLog        `toml:"log"`
	Settings []defaultSettings `toml:"settings"`
}

func newDefaultConfig(base string) defaultConfig {
	return defaultConfig{
		Log: defaultLog{Level: "info", Format: "text"},
		Settings: []defaultSettings{
			{
				Name:              "desktop-documents",
				DaysAgo:           3,
				ExecutionMode:     "once",
				ExecutionInterval: 60,
				FileConflict:      "rename",
				TargetFolders: []defaultTargetFolder{
					{TargetFolder: filepath.Join(base, "Documents"), FileTypes: []string{"txt", "xlsx", "docx", "pdf"}},
					{TargetFolder: filepath.Join(base, "Videos"), FileTypes: []string{"mp4", "avi"}},
				},
			},
			{
				Name:              "desktop-media",
				DaysAgo:           5,
				ExecutionMode:     "monitor",
				ExecutionInterval: 120,
				FileConflict:      "rename",
				TargetFolders: []defaultTargetFolder{
					{TargetFolder: filepath.Join(base, "Pictures"), FileTypes: []string{"jpg", "png", "gif"}},
					{TargetFolder: filepath.Join(base, "Music"), FileTypes: []string{"mp3", "wav"}},
				},
			},
		},
	}
}

// WriteDefaultConfig creates a TOML config at path with two sample jobs
// organizing the desktop into folders under the user's home directory.
func WriteDefaultConfig(path string) error {
	base := "Organized"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, "Organized")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, "Unable to create config directory")
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrap(err, "Unable to create default config file")
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(newDefaultConfig(base)); err != nil {
		return errors.Wrap(err, "Unable to write default config file")
	}

	return nil
}
