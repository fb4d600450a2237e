//go:build linux || openbsd || dragonfly || solaris

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

	return time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec))
}
