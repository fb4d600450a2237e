package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MoveFile copies src to dst and removes src once the copy is complete.
func MoveFile(src, dst string) error {
	err := CopyFile(src, dst)
	if err != nil {
		return fmt.Errorf("failed to copy source file %s to %s: %s", src, dst, err)
	}
	err = os.Remove(src)
	if err != nil {
		return fmt.Errorf("failed to cleanup source file %s: %s", src, err)
	}
	return nil
}

// CopyFile copies contents, mode and timestamps of src to dst. The data is
// written to a temporary file next to dst and renamed into place, so dst is
// either left as it was or fully replaced.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return
	}
	defer in.Close()

	si, err := in.Stat()
	if err != nil {
		return
	}
	if si.IsDir() {
		return fmt.Errorf("source is a directory")
	}

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return
	}
	tmp := out.Name()

	defer func() {
		if err != nil {
			out.Close()
			os.Remove(tmp)
		}
	}()

	_, err = io.Copy(out, in)
	if err != nil {
		return
	}

	err = out.Sync()
	if err != nil {
		return
	}

	err = out.Close()
	if err != nil {
		return
	}

	err = os.Chmod(tmp, si.Mode())
	if err != nil {
		return
	}

	err = os.Chtimes(tmp, accessTime(si), si.ModTime())
	if err != nil {
		return
	}

	return os.Rename(tmp, dst)
}
