//go:build !linux && !windows

package jvm

const (
	libraryName   = "libjvm.dylib"
	searchPathVar = "DYLD_LIBRARY_PATH"
)

var libraryDirs = []string{"lib/server", "lib"}
