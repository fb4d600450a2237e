//go:build darwin || freebsd || netbsd

package transfer

import (
	"os"
	"syscall"
	"time"
)

func accessTime(info os.FileInfo) time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}

	return time.Unix(int64(stat.Atimespec.Sec), int64(stat.Atimespec.Nsec))
}
