//go:build !linux && !windows

package startup

import (
	"os"
)

func userDataDir() (string, error) {
	return os.UserConfigDir()
}

func displayPath(p string) string {
	return p
}
