package domainfx

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/yurykabanov/organizer/internal/configfx"
	"github.com/yurykabanov/organizer/pkg/domain"
	"github.com/yurykabanov/organizer/pkg/platform"
)

const (
	ConfigSettings = "settings"

	defaultExecutionInterval = 60

	day = 24 * time.Hour

	// largest values whose duration still fits into time.Duration
	maxDaysAgo           = int64(math.MaxInt64 / int64(day))
	maxExecutionInterval = int64(math.MaxInt64 / int64(time.Second))
)

type TargetFolderConfig struct {
	TargetFolder string   `mapstructure:"target_folder"`
	FileTypes    []string `mapstructure:"file_types"`
}

type JobConfig struct {
	Name              string               `mapstructure:"name"`
	SourcePath        string               `mapstructure:"source_path"`
	DaysAgo           int                  `mapstructure:"days_ago"`
	ExecutionMode     string               `mapstructure:"execution_mode"`
	ExecutionInterval *int                 `mapstructure:"execution_interval"`
	CronSpec          string               `mapstructure:"cron_spec"`
	FileConflict      string               `mapstructure:"file_conflict"`
	Ignore            []string             `mapstructure:"ignore"`
	TargetFolders     []TargetFolderConfig `mapstructure:"target_folders"`
}

func PlatformResolver() platform.SourcePathResolver {
	return platform.NewDesktop()
}

// LoadJobs decodes job descriptors from configuration. Invalid descriptors
// are logged and dropped, the rest still run.
func LoadJobs(logger *logrus.Logger, v *viper.Viper, resolver platform.SourcePathResolver) ([]domain.Job, error) {
	var configs []JobConfig

	err := v.UnmarshalKey(ConfigSettings, &configs)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to unmarshal settings")
	}

	jobs, err := BuildJobs(configs, resolver, v.GetBool(configfx.FlagOnce))
	for _, jobErr := range multierr.Errors(err) {
		logger.WithError(jobErr).Error("Invalid job is skipped")
	}

	if len(jobs) == 0 {
		logger.Warn("No jobs configured")
	}

	return jobs, nil
}

// BuildJobs converts descriptors into jobs in configuration order. The
// returned error combines the reasons of every rejected descriptor.
func BuildJobs(configs []JobConfig, resolver platform.SourcePathResolver, once bool) ([]domain.Job, error) {
	var (
		jobs []domain.Job
		errs error
	)

	names := make(map[string]struct{}, len(configs))

	for i, config := range configs {
		job, err := buildJob(i, config, resolver)
		if err == nil {
			if _, ok := names[job.Name]; ok {
				err = errors.Wrap(domain.ErrInvalidJob, "duplicate name")
			}
		}

		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "job #%d %q", i+1, config.Name))
			continue
		}

		if once {
			job.Strategy = domain.StrategyOnce
		}

		names[job.Name] = struct{}{}
		jobs = append(jobs, job)
	}

	return jobs, errs
}

func buildJob(index int, config JobConfig, resolver platform.SourcePathResolver) (domain.Job, error) {
	name := strings.TrimSpace(config.Name)
	if name == "" {
		name = fmt.Sprintf("job-%d", index+1)
	}

	strategy, err := domain.ParseStrategy(config.ExecutionMode)
	if err != nil {
		return domain.Job{}, err
	}

	conflict, err := domain.ParseConflictPolicy(config.FileConflict)
	if err != nil {
		return domain.Job{}, err
	}

	if config.DaysAgo < 0 {
		return domain.Job{}, errors.Wrapf(domain.ErrInvalidJob, "days_ago must not be negative, got %d", config.DaysAgo)
	}
	if int64(config.DaysAgo) > maxDaysAgo {
		return domain.Job{}, errors.Wrapf(domain.ErrInvalidJob, "days_ago must not exceed %d, got %d", maxDaysAgo, config.DaysAgo)
	}

	interval := defaultExecutionInterval
	if config.ExecutionInterval != nil {
		interval = *config.ExecutionInterval
	}
	if int64(interval) > maxExecutionInterval {
		return domain.Job{}, errors.Wrapf(domain.ErrInvalidJob, "execution_interval must not exceed %d, got %d", maxExecutionInterval, interval)
	}

	source, err := resolveSource(config.SourcePath, resolver)
	if err != nil {
		return domain.Job{}, err
	}

	rules := make([]domain.TargetRule, 0, len(config.TargetFolders))
	for _, folder := range config.TargetFolders {
		rules = append(rules, domain.TargetRule{
			TargetDirectory: folder.TargetFolder,
			FileTypes:       folder.FileTypes,
		})
	}

	job := domain.Job{
		Name:            name,
		SourceDirectory: source,
		Age:             time.Duration(config.DaysAgo) * day,
		Rules:           domain.NewRuleSet(rules...),
		Conflict:        conflict,
		Strategy:        strategy,
		Interval:        time.Duration(interval) * time.Second,
		CronSpec:        config.CronSpec,
		Ignore:          config.Ignore,
	}

	return job, job.Validate()
}

// resolveSource falls back to the platform default when the configured
// directory is empty or does not exist.
func resolveSource(path string, resolver platform.SourcePathResolver) (string, error) {
	if path = strings.TrimSpace(path); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	fallback, err := resolver.DefaultSourcePath()
	if err != nil {
		return "", errors.Wrap(domain.ErrInvalidJob, err.Error())
	}

	return fallback, nil
}
