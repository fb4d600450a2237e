//go:build windows

package transfer

import (
	"os"
	"syscall"
	"time"
)

func accessTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(0, stat.LastAccessTime.Nanoseconds())
}
