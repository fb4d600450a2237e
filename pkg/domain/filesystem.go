package domain

import (
	"os"
	"time"
)

type FileInfo struct {
	Name       string
	IsDir      bool
	AccessTime time.Time
	ModTime    time.Time
}

// FileSystem is the set of primitives the mover relies on. Stat must return
// an error matching os.ErrNotExist for missing paths.
type FileSystem interface {
	ReadDir(dir string) ([]os.DirEntry, error)
	Stat(path string) (FileInfo, error)
	MkdirAll(dir string) error
	Move(src, dst string) error
}
