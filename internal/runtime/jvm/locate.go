package jvm

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/joshrwolf/starter/internal/runtime"
)

// Locator finds the JVM shared library. The zero value is not usable, use
// NewLocator.
type Locator struct {
	// LookPath resolves an executable against PATH
	LookPath func(file string) (string, error)

	// Getenv reads an environment variable
	Getenv func(key string) string
}

// NewLocator returns a Locator backed by the process environment
func NewLocator() *Locator {
	return &Locator{
		LookPath: exec.LookPath,
		Getenv:   os.Getenv,
	}
}

// Find returns the first existing runtime library, searching the bundled
// jre under appRoot, then the runtime owning the java executable on PATH,
// then JAVA_HOME.
func (l *Locator) Find(appRoot string) (string, error) {
	if lib, ok := findInHome(filepath.Join(appRoot, "jre")); ok {
		return lib, nil
	}

	if java, err := l.LookPath("java"); err == nil {
		for _, home := range javaHomes(java) {
			if lib, ok := findInHome(home); ok {
				return lib, nil
			}
		}
	}

	if home := l.Getenv("JAVA_HOME"); home != "" {
		if lib, ok := findInHome(home); ok {
			return lib, nil
		}
	}

	return "", fmt.Errorf("%w: searched %s, PATH and JAVA_HOME for %s", runtime.ErrNotFound, filepath.Join(appRoot, "jre"), libraryName)
}

// javaHomes derives candidate runtime roots from a java executable path.
// The executable lives in <home>/bin, so the root is two levels up. A
// symlinked launcher (/usr/bin/java) is followed to its real location as
// a second candidate.
func javaHomes(java string) []string {
	homes := []string{filepath.Dir(filepath.Dir(java))}

	resolved, err := filepath.EvalSymlinks(java)
	if err == nil && resolved != java {
		homes = append(homes, filepath.Dir(filepath.Dir(resolved)))
	}

	return homes
}

func findInHome(home string) (string, bool) {
	for _, dir := range libraryDirs {
		candidate := filepath.Join(home, dir, libraryName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
