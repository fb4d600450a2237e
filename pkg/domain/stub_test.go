package domain

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard

	return logger
}

// region stubFileSystem
type stubEntry struct {
	name string
	dir  bool
}

func (e stubEntry) Name() string { return e.name }
func (e stubEntry) IsDir() bool  { return e.dir }

func (e stubEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

func (e stubEntry) Info() (fs.FileInfo, error) {
	return nil, errors.New("not implemented")
}

type stubFileSystem struct {
	mu sync.Mutex

	files   map[string]FileInfo
	statErr map[string]error
	readErr error

	dirs  []string
	moves [][2]string
}

func newStubFileSystem() *stubFileSystem {
	return &stubFileSystem{
		files:   make(map[string]FileInfo),
		statErr: make(map[string]error),
	}
}

func (s *stubFileSystem) add(path string, info FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info.Name = filepath.Base(path)
	s.files[path] = info
}

func (s *stubFileSystem) ReadDir(dir string) ([]os.DirEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.readErr != nil {
		return nil, s.readErr
	}

	var entries []os.DirEntry
	for path, info := range s.files {
		if filepath.Dir(path) == dir {
			entries = append(entries, stubEntry{name: info.Name, dir: info.IsDir})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return entries, nil
}

func (s *stubFileSystem) Stat(path string) (FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.statErr[path]; ok {
		return FileInfo{}, err
	}

	info, ok := s.files[path]
	if !ok {
		return FileInfo{}, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}

	return info, nil
}

func (s *stubFileSystem) MkdirAll(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirs = append(s.dirs, dir)
	return nil
}

func (s *stubFileSystem) Move(src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[src]
	if !ok {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrNotExist}
	}

	delete(s.files, src)
	info.Name = filepath.Base(dst)
	s.files[dst] = info
	s.moves = append(s.moves, [2]string{src, dst})

	return nil
}

func (s *stubFileSystem) createdDirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.dirs...)
}

// endregion

// region countingMover
type countingMover struct {
	passes atomic.Int64
	err    error
}

func (m *countingMover) Run(ctx context.Context, job Job) (Pass, error) {
	m.passes.Inc()

	return Pass{Job: job.Name}, m.err
}

// endregion

// region runnerFunc
type runnerFunc func(ctx context.Context, job Job) error

func (f runnerFunc) Run(ctx context.Context, job Job) error {
	return f(ctx, job)
}

// endregion
