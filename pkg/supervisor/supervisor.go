package supervisor

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyRunning = errors.New("organizer is already running")
	ErrNotRunning     = errors.New("organizer is not running")
	ErrStopTimeout    = errors.New("organizer did not stop in time")
	ErrUnknownPid     = errors.New("organizer is running but its pid is unknown")
)

// Supervisor starts the daemon as a detached background process and stops
// it again. The daemon holds LockFile for its whole lifetime, so the lock
// is the source of truth for liveness; PidFile only tells whom to signal.
type Supervisor struct {
	Executable string
	Args       []string
	PidFile    string
	LockFile   string

	PollInterval time.Duration
}

type Status struct {
	Running bool
	Pid     int
}

func New(executable string, args []string, pidFile, lockFile string) *Supervisor {
	return &Supervisor{
		Executable:   executable,
		Args:         args,
		PidFile:      pidFile,
		LockFile:     lockFile,
		PollInterval: 100 * time.Millisecond,
	}
}

func (s *Supervisor) Start() (int, error) {
	status, err := s.Status()
	if err != nil {
		return 0, err
	}
	if status.Running {
		return status.Pid, ErrAlreadyRunning
	}

	cmd := exec.Command(s.Executable, s.Args...)
	cmd.SysProcAttr = detached()

	if err := cmd.Start(); err != nil {
		return 0, errors.Wrap(err, "Unable to launch daemon")
	}

	pid := cmd.Process.Pid

	if err := os.WriteFile(s.PidFile, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return pid, errors.Wrapf(err, "Unable to write pid file %s", s.PidFile)
	}

	return pid, cmd.Process.Release()
}

// Stop asks the daemon to terminate and waits up to timeout for it to
// release its lock.
func (s *Supervisor) Stop(timeout time.Duration) (int, error) {
	status, err := s.Status()
	if err != nil {
		return 0, err
	}

	if !status.Running {
		if status.Pid != 0 {
			// stale pid file left by a crashed daemon
			s.removePidFile()
		}
		return status.Pid, ErrNotRunning
	}

	// the lock is held by a daemon started without a pid file
	if status.Pid == 0 {
		return 0, errors.Wrapf(ErrUnknownPid, "lock %s is held", s.LockFile)
	}

	proc, err := os.FindProcess(status.Pid)
	if err != nil {
		return status.Pid, errors.Wrapf(err, "Unable to find process %d", status.Pid)
	}

	if err := terminate(proc); err != nil {
		return status.Pid, errors.Wrapf(err, "Unable to signal process %d", status.Pid)
	}

	deadline := time.Now().Add(timeout)
	for {
		running, err := s.locked()
		if err != nil {
			return status.Pid, err
		}
		if !running {
			break
		}
		if time.Now().After(deadline) {
			return status.Pid, ErrStopTimeout
		}
		time.Sleep(s.PollInterval)
	}

	s.removePidFile()
	return status.Pid, nil
}

func (s *Supervisor) Status() (Status, error) {
	running, err := s.locked()
	if err != nil {
		return Status{}, err
	}

	pid, err := s.readPid()
	if err != nil {
		return Status{}, err
	}

	return Status{Running: running, Pid: pid}, nil
}

// locked reports whether somebody else holds the daemon lock.
func (s *Supervisor) locked() (bool, error) {
	lock := flock.New(s.LockFile)

	ok, err := lock.TryLock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, "Unable to probe lock %s", s.LockFile)
	}

	if ok {
		lock.Unlock()
	}

	return !ok, nil
}

func (s *Supervisor) readPid() (int, error) {
	data, err := os.ReadFile(s.PidFile)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "Unable to read pid file %s", s.PidFile)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, errors.Errorf("malformed pid file %s", s.PidFile)
	}

	return pid, nil
}

func (s *Supervisor) removePidFile() {
	os.Remove(s.PidFile)
}
