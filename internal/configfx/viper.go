package configfx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix              = "organizer"
	DefaultConfigDirectory = "organizer"
	DefaultConfigFile      = "organizer"
)

func defaultConfigPaths() []string {
	paths := []string{
		".",
		"./config",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", DefaultConfigDirectory))
	}

	return append(paths, filepath.Join("/etc", DefaultConfigDirectory))
}

func ViperProvider(logger *logrus.Logger, flagSet *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(flagSet)
	if err != nil {
		return nil, err
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	SetDefaults(v)

	// Read config from config file
	if configFile := v.GetString(FlagConfig); configFile != "" {
		// If user does specify config file and it is missing, then a default
		// one is created in its place; an invalid file is still fatal

		if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
			if err := WriteDefaultConfig(configFile); err != nil {
				return nil, err
			}

			logger.WithField("config", configFile).Info("Default config file created")
		}

		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Unable to read config file %s", configFile)
		}
	} else {
		// If user does not specify config file, then we'll still try to find appropriate config,
		// but missing file is not an error

		v.SetConfigName(DefaultConfigFile)

		for _, dir := range defaultConfigPaths() {
			v.AddConfigPath(dir)
		}

		if err := v.ReadInConfig(); err != nil {
			logger.WithError(err).Warn("Couldn't read config file")
		}
	}

	return v, nil
}
