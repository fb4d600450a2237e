//go:build !linux && !openbsd && !dragonfly && !solaris && !darwin && !freebsd && !netbsd && !windows

package transfer

import (
	"os"
	"time"
)

// access time is unavailable, modification time is the closest approximation
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
