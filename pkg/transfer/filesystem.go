package transfer

import (
	"os"

	"github.com/pkg/errors"

	"github.com/yurykabanov/organizer/pkg/domain"
)

// FileSystem implements domain.FileSystem on top of the local OS.
type FileSystem struct {
	dirMode os.FileMode
}

func New() *FileSystem {
	return &FileSystem{
		dirMode: 0755,
	}
}

func (fs *FileSystem) ReadDir(dir string) ([]os.DirEntry, error) {
	return os.ReadDir(dir)
}

func (fs *FileSystem) Stat(path string) (domain.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileInfo{}, err
	}

	return domain.FileInfo{
		Name:       info.Name(),
		IsDir:      info.IsDir(),
		AccessTime: accessTime(info),
		ModTime:    info.ModTime(),
	}, nil
}

func (fs *FileSystem) MkdirAll(dir string) error {
	return os.MkdirAll(dir, fs.dirMode)
}

// Move renames src to dst, replacing dst if it exists. Rename doesn't work
// across different mount points, in that case the file is copied and the
// source removed afterwards.
func (fs *FileSystem) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !isCrossDevice(linkErr.Err) {
		return err
	}

	return MoveFile(src, dst)
}
