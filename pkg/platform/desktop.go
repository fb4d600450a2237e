package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// SourcePathResolver provides the directory organized when a job does not
// name one.
type SourcePathResolver interface {
	DefaultSourcePath() (string, error)
}

type Desktop struct {
	goos    string
	getenv  func(string) string
	homeDir func() (string, error)
}

func NewDesktop() *Desktop {
	return &Desktop{
		goos:    runtime.GOOS,
		getenv:  os.Getenv,
		homeDir: os.UserHomeDir,
	}
}

// DefaultSourcePath returns the current user's desktop directory.
func (d *Desktop) DefaultSourcePath() (string, error) {
	if d.goos == "windows" {
		if profile := d.getenv("USERPROFILE"); profile != "" {
			return filepath.Join(profile, "Desktop"), nil
		}
	}

	home, err := d.homeDir()
	if err != nil {
		return "", errors.Wrap(err, "Unable to resolve home directory")
	}

	// xdg-user-dirs keeps it as "$HOME/Desktop"
	if d.goos != "windows" && d.goos != "darwin" {
		if xdg := d.getenv("XDG_DESKTOP_DIR"); xdg != "" {
			return filepath.Clean(strings.Replace(xdg, "$HOME", home, 1)), nil
		}
	}

	return filepath.Join(home, "Desktop"), nil
}
