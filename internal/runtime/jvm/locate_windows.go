package jvm

const (
	libraryName   = "jvm.dll"
	searchPathVar = "PATH"
)

var libraryDirs = []string{`bin\server`, "bin"}
