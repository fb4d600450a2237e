package domain

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type JobState string

const (
	JobStateIdle     JobState = "idle"
	JobStateRunning  JobState = "running"
	JobStateWaiting  JobState = "waiting"
	JobStateWatching JobState = "watching"
	JobStateStopped  JobState = "stopped"
)

type JobStatus struct {
	Job          string    `json:"job"`
	Strategy     string    `json:"strategy"`
	State        JobState  `json:"state"`
	ChangedAt    time.Time `json:"changed_at"`
	Passes       int64     `json:"passes"`
	FailedPasses int64     `json:"failed_passes"`
	Relocated    int64     `json:"relocated"`
	LastPassAt   time.Time `json:"last_pass_at"`
	LastError    string    `json:"last_error,omitempty"`
}

type jobStatus struct {
	strategy  Strategy
	state     JobState
	changedAt time.Time

	passes    atomic.Int64
	failed    atomic.Int64
	relocated atomic.Int64

	lastPassAt time.Time
	lastError  string
}

// StateTracker keeps the current state of every job for reporting.
// A nil tracker is valid and records nothing.
type StateTracker struct {
	mu   sync.RWMutex
	jobs map[string]*jobStatus

	now func() time.Time
}

func NewStateTracker() *StateTracker {
	return &StateTracker{
		jobs: make(map[string]*jobStatus),
		now:  time.Now,
	}
}

func (t *StateTracker) Register(job Job) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.jobs[job.Name] = &jobStatus{
		strategy:  job.Strategy,
		state:     JobStateIdle,
		changedAt: t.now(),
	}
}

func (t *StateTracker) Transition(job string, state JobState) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.jobs[job]; ok {
		s.state = state
		s.changedAt = t.now()
	}
}

func (t *StateTracker) PassFinished(pass Pass, err error) {
	if t == nil {
		return
	}

	t.mu.RLock()
	s, ok := t.jobs[pass.Job]
	t.mu.RUnlock()

	if !ok {
		return
	}

	s.passes.Inc()
	s.relocated.Add(int64(pass.Relocated()))
	if err != nil {
		s.failed.Inc()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s.lastPassAt = pass.FinishedAt
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

func (t *StateTracker) State(job string) (JobState, bool) {
	if t == nil {
		return "", false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.jobs[job]
	if !ok {
		return "", false
	}

	return s.state, true
}

// Snapshot returns the status of all jobs ordered by name.
func (t *StateTracker) Snapshot() []JobStatus {
	if t == nil {
		return nil
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]JobStatus, 0, len(t.jobs))

	for name, s := range t.jobs {
		result = append(result, JobStatus{
			Job:          name,
			Strategy:     s.strategy.String(),
			State:        s.state,
			ChangedAt:    s.changedAt,
			Passes:       s.passes.Load(),
			FailedPasses: s.failed.Load(),
			Relocated:    s.relocated.Load(),
			LastPassAt:   s.lastPassAt,
			LastError:    s.lastError,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Job < result[j].Job
	})

	return result
}
