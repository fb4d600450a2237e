package domain

import (
	"strings"
	"time"

	"github.com/IGLOU-EU/go-wildcard"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

const DefaultInterval = 60 * time.Second

type ConflictPolicy int

const (
	// Existing destination is kept, the incoming file gets a "_N" suffix
	ConflictRename ConflictPolicy = iota

	// Existing destination is kept, the incoming file stays where it is
	ConflictSkip

	// Incoming file replaces the destination only when it is strictly newer
	ConflictOverwrite
)

var conflictPolicyNames = map[ConflictPolicy]string{
	ConflictRename:    "rename",
	ConflictSkip:      "skip",
	ConflictOverwrite: "overwrite",
}

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ConflictRename, nil
	}

	for policy, name := range conflictPolicyNames {
		if name == s {
			return policy, nil
		}
	}

	return ConflictRename, errors.Wrapf(ErrInvalidConflictPolicy, "%q", s)
}

func (p ConflictPolicy) String() string {
	if name, ok := conflictPolicyNames[p]; ok {
		return name
	}
	return "unknown"
}

type Strategy int

const (
	StrategyOnce Strategy = iota
	StrategyTimer
	StrategyMonitor
	StrategyCron
)

var strategyNames = map[Strategy]string{
	StrategyOnce:    "once",
	StrategyTimer:   "timer",
	StrategyMonitor: "monitor",
	StrategyCron:    "cron",
}

func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for strategy, name := range strategyNames {
		if name == s {
			return strategy, nil
		}
	}

	return StrategyOnce, errors.Wrapf(ErrInvalidExecutionMode, "%q", s)
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// LongRunning reports whether the strategy occupies a worker until cancelled.
func (s Strategy) LongRunning() bool {
	return s == StrategyTimer || s == StrategyMonitor || s == StrategyCron
}

// Job is one configured unit of work. It is built once from configuration
// and never mutated afterwards.
type Job struct {
	Name            string
	SourceDirectory string
	Age             time.Duration
	Rules           RuleSet
	Conflict        ConflictPolicy
	Strategy        Strategy
	Interval        time.Duration
	CronSpec        string
	Ignore          []string
}

// Cutoff is the access time a file must be strictly older than to be moved.
func (j Job) Cutoff(now time.Time) time.Time {
	return now.Add(-j.Age)
}

func (j Job) Ignored(name string) bool {
	for _, pattern := range j.Ignore {
		if wildcard.Match(pattern, name) {
			return true
		}
	}
	return false
}

func (j Job) Validate() error {
	if strings.TrimSpace(j.SourceDirectory) == "" {
		return errors.Wrap(ErrInvalidJob, "source directory is empty")
	}

	if j.Age < 0 {
		return errors.Wrapf(ErrInvalidJob, "negative age %s", j.Age)
	}

	if j.Rules.Len() == 0 {
		return errors.Wrap(ErrInvalidJob, "no target folders")
	}

	for i, rule := range j.Rules.Rules() {
		if strings.TrimSpace(rule.TargetDirectory) == "" {
			return errors.Wrapf(ErrInvalidJob, "target folder #%d is empty", i+1)
		}
	}

	switch j.Strategy {
	case StrategyOnce, StrategyMonitor:
	case StrategyTimer:
		if j.Interval <= 0 {
			return errors.Wrapf(ErrInvalidJob, "non-positive interval %s", j.Interval)
		}
	case StrategyCron:
		if _, err := cron.Parse(j.CronSpec); err != nil {
			return errors.Wrapf(ErrInvalidJob, "cron spec %q: %v", j.CronSpec, err)
		}
	default:
		return errors.Wrapf(ErrInvalidExecutionMode, "%d", j.Strategy)
	}

	if _, ok := conflictPolicyNames[j.Conflict]; !ok {
		return errors.Wrapf(ErrInvalidConflictPolicy, "%d", j.Conflict)
	}

	return nil
}
