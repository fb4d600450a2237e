package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// resolve picks the destination path for source according to policy.
// Outcome is OutcomeSkipped when the file must stay where it is. ext is the
// matched file type with its dot, renamed files keep it intact.
func (m *Mover) resolve(policy ConflictPolicy, source FileInfo, destination, ext string) (string, Outcome, error) {
	existing, err := m.fs.Stat(destination)
	if errors.Is(err, os.ErrNotExist) {
		return destination, OutcomeMoved, nil
	}
	if err != nil {
		return destination, OutcomeFailed, errors.Wrap(err, "unable to stat destination")
	}

	switch policy {
	case ConflictSkip:
		return destination, OutcomeSkipped, nil

	case ConflictOverwrite:
		// equal modification times keep both files untouched
		if existing.IsDir || !source.ModTime.After(existing.ModTime) {
			return destination, OutcomeSkipped, nil
		}
		return destination, OutcomeOverwritten, nil

	case ConflictRename:
		free, err := m.freeName(destination, ext)
		if err != nil {
			return destination, OutcomeFailed, err
		}
		return free, OutcomeRenamed, nil
	}

	return destination, OutcomeFailed, errors.Wrapf(ErrInvalidConflictPolicy, "%d", policy)
}

// freeName returns the first "base_N.ext" next to destination that does not
// exist yet, N starting from 1. The last extension is used when ext is not a
// suffix of the name.
func (m *Mover) freeName(destination, ext string) (string, error) {
	dir, name := filepath.Split(destination)
	if ext == "" || len(name) <= len(ext) || !strings.HasSuffix(name, ext) {
		ext = filepath.Ext(name)
	}
	base := strings.TrimSuffix(name, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, ext))

		_, err := m.fs.Stat(candidate)
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", errors.Wrapf(err, "unable to stat %s", candidate)
		}
	}
}
