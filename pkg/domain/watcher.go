package domain

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// watcher is a recursive change subscription on a source directory.
// Next blocks until something worth a pass happens; every such event
// triggers a full pass, so a burst of events produces a burst of passes.
type watcher struct {
	logger  logrus.FieldLogger
	root    string
	watcher *fsnotify.Watcher
}

func newWatcher(logger logrus.FieldLogger, root string) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrapf(ErrWatchFailed, "%s: %v", root, err)
	}

	w := &watcher{
		logger:  logger,
		root:    filepath.Clean(root),
		watcher: fw,
	}

	if err := w.addTree(w.root); err != nil {
		fw.Close()
		return nil, errors.Wrapf(ErrWatchFailed, "%s: %v", root, err)
	}

	return w, nil
}

func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return w.watcher.Add(path)
	})
}

func (w *watcher) Next(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.Wrap(ErrWatchLost, w.root)
			}

			w.logger.WithError(err).Warn("Watch error")

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.Wrap(ErrWatchLost, w.root)
			}

			if trigger, err := w.handle(event); err != nil || trigger {
				return err
			}
		}
	}
}

func (w *watcher) handle(event fsnotify.Event) (bool, error) {
	path := filepath.Clean(event.Name)

	if path == w.root && (event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return false, errors.Wrap(ErrWatchLost, w.root)
	}

	if event.Op == fsnotify.Chmod {
		return false, nil
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if event.Has(fsnotify.Create) {
				if err := w.addTree(path); err != nil {
					w.logger.WithError(err).WithField("directory", path).Warn("Unable to watch new directory")
				}
			}
			return false, nil
		}
	}

	w.logger.WithFields(logrus.Fields{
		"event": event.Op.String(),
		"path":  path,
	}).Debug("Change detected")

	return true, nil
}

func (w *watcher) Close() error {
	return w.watcher.Close()
}
