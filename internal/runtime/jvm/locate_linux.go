package jvm

const (
	libraryName   = "libjvm.so"
	searchPathVar = "LD_LIBRARY_PATH"
)

var libraryDirs = []string{"lib/server", "lib"}
