package startup

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
)

func userDataDir() (string, error) {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_LocalAppData, 0)
	if err != nil {
		return "", fmt.Errorf("local app data directory not found: %w", err)
	}
	return dir, nil
}

// displayPath drops the extended-length prefix the JVM does not expect
func displayPath(p string) string {
	return strings.TrimPrefix(p, `\\?\`)
}
