package domain

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/organizer/pkg/appcontext"
)

// Mover performs a single synchronous scan-filter-relocate pass over a job's
// source directory. It has no concurrency of its own.
type Mover struct {
	logger   logrus.FieldLogger
	fs       FileSystem
	recorder PassRecorder

	now func() time.Time
}

func NewMover(logger logrus.FieldLogger, fs FileSystem, recorder PassRecorder) *Mover {
	if recorder == nil {
		recorder = NoopRecorder()
	}

	return &Mover{
		logger:   logger,
		fs:       fs,
		recorder: recorder,
		now:      time.Now,
	}
}

// Run executes one pass. The returned error is set only when the pass as a
// whole was aborted; failures of individual files are reported in Pass.
func (m *Mover) Run(ctx context.Context, job Job) (Pass, error) {
	pass := Pass{
		Id:        uuid.NewString(),
		Job:       job.Name,
		StartedAt: m.now(),
	}

	ctx = appcontext.WithPassId(ctx, pass.Id)
	logger := appcontext.LoggerFromContext(m.logger, ctx)

	logger.WithField("source", job.SourceDirectory).Debug("Starting pass")

	err := m.scan(ctx, logger, job, job.Cutoff(pass.StartedAt), &pass)

	pass.FinishedAt = m.now()
	if err != nil {
		pass.Error = err.Error()
	}

	logger.WithFields(logrus.Fields{
		"moved":       pass.Moved,
		"renamed":     pass.Renamed,
		"overwritten": pass.Overwritten,
		"skipped":     pass.Skipped,
		"failed":      pass.Failed,
		"duration_ns": pass.FinishedAt.Sub(pass.StartedAt).Nanoseconds(),
	}).Debug("Pass finished")

	// the journal entry is written even for a pass interrupted by shutdown
	if recErr := m.recorder.RecordPass(context.WithoutCancel(ctx), pass); recErr != nil {
		logger.WithError(recErr).Error("Unable to record pass")
	}

	return pass, err
}

func (m *Mover) scan(ctx context.Context, logger logrus.FieldLogger, job Job, cutoff time.Time, pass *Pass) error {
	entries, err := m.fs.ReadDir(job.SourceDirectory)
	if err != nil {
		return errors.Wrapf(ErrSourceUnavailable, "%s: %v", job.SourceDirectory, err)
	}

	source := filepath.Clean(job.SourceDirectory)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if job.Ignored(name) {
			continue
		}

		targetDir, fileType, ok := job.Rules.MatchFileType(name)
		if !ok || filepath.Clean(targetDir) == source {
			continue
		}

		path := filepath.Join(job.SourceDirectory, name)

		info, err := m.fs.Stat(path)
		if err != nil {
			m.report(logger, pass, Move{File: path, Target: targetDir, Outcome: OutcomeFailed, Error: err.Error()})
			continue
		}

		if info.IsDir || !info.AccessTime.Before(cutoff) {
			continue
		}

		m.report(logger, pass, m.relocate(job.Conflict, path, name, "."+fileType, targetDir, info))
	}

	return nil
}

func (m *Mover) relocate(policy ConflictPolicy, path, name, ext, targetDir string, info FileInfo) Move {
	move := Move{File: path, Target: filepath.Join(targetDir, name)}

	if err := m.fs.MkdirAll(targetDir); err != nil {
		move.Outcome, move.Error = OutcomeFailed, err.Error()
		return move
	}

	target, outcome, err := m.resolve(policy, info, move.Target, ext)
	move.Target, move.Outcome = target, outcome

	if err != nil {
		move.Error = err.Error()
		return move
	}

	if outcome == OutcomeSkipped {
		return move
	}

	if err := m.fs.Move(path, target); err != nil {
		move.Outcome, move.Error = OutcomeFailed, err.Error()
	}

	return move
}

func (m *Mover) report(logger logrus.FieldLogger, pass *Pass, move Move) {
	pass.add(move)

	entry := logger.WithFields(logrus.Fields{
		"file":   move.File,
		"target": move.Target,
	})

	if move.Outcome == OutcomeFailed {
		entry.WithField("error", move.Error).Warn(string(move.Outcome))
		return
	}

	entry.Info(string(move.Outcome))
}
