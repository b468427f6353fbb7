package startup

import (
	"fmt"
	"os"
	"path/filepath"
)

func userDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("user home directory not found: %w", err)
	}
	return filepath.Join(home, ".config"), nil
}

func displayPath(p string) string {
	return p
}
