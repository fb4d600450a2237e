package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yurykabanov/organizer/pkg/supervisor"
)

const daemonName = "organizer"

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	var startTimeout time.Duration
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the organizer daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			sup, err := ctx.supervisor()
			if err != nil {
				return err
			}

			sup.Executable, err = daemonExecutable()
			if err != nil {
				return err
			}

			pid, err := sup.Start()
			if errors.Is(err, supervisor.ErrAlreadyRunning) {
				fmt.Fprintf(stdout, "Daemon already running (pid %d)\n", pid)
				return nil
			}
			if err != nil {
				return err
			}

			if waitRunning(sup, startTimeout) {
				fmt.Fprintf(stdout, "Daemon started (pid %d)\n", pid)
				return nil
			}

			return errors.Errorf("daemon (pid %d) exited or did not acquire its lock within %s", pid, startTimeout)
		},
	}
	startCmd.Flags().DurationVar(&startTimeout, "timeout", 10*time.Second, "How long to wait for the daemon to come up")

	var stopTimeout time.Duration
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the organizer daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			sup, err := ctx.supervisor()
			if err != nil {
				return err
			}

			pid, err := sup.Stop(stopTimeout)
			if errors.Is(err, supervisor.ErrNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "Daemon stopped (pid %d)\n", pid)
			return nil
		},
	}
	stopCmd.Flags().DurationVar(&stopTimeout, "timeout", 30*time.Second, "How long to wait for running passes to finish")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon state and the latest pass of every job",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			sup, err := ctx.supervisor()
			if err != nil {
				return err
			}

			status, err := sup.Status()
			if err != nil {
				return err
			}

			fmt.Fprintln(stdout, daemonStatusLine(status))

			journal, closeJournal, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer closeJournal()

			if journal == nil {
				fmt.Fprintln(stdout, "Journal is not available")
				return nil
			}

			passes, err := journal.FindLatestPasses(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "Unable to read journal")
			}

			if len(passes) == 0 {
				fmt.Fprintln(stdout, "No passes recorded yet")
				return nil
			}

			fmt.Fprintln(stdout, renderPasses(passes, time.Now(), true))
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func daemonStatusLine(status supervisor.Status) string {
	switch {
	case status.Running && status.Pid > 0:
		return fmt.Sprintf("Daemon is running (pid %d)", status.Pid)
	case status.Running:
		return "Daemon is running"
	default:
		return "Daemon is not running"
	}
}

func waitRunning(sup *supervisor.Supervisor, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if status, err := sup.Status(); err == nil && status.Running {
			return true
		}
		time.Sleep(sup.PollInterval)
	}

	return false
}

// daemonExecutable prefers the daemon installed next to this binary.
func daemonExecutable() (string, error) {
	name := daemonName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(daemonName)
	if err != nil {
		return "", errors.Wrap(err, "Unable to locate organizer daemon")
	}

	return path, nil
}
