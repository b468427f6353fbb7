package jvm

import (
	"os"
	"sync"
)

var searchPathOnce sync.Once

// extendSearchPath prepends dir to the library search path variable so the
// runtime's own dependencies resolve. Only the first call has an effect.
func extendSearchPath(dir string) error {
	var err error
	searchPathOnce.Do(func() {
		err = prependPathList(searchPathVar, dir)
	})
	return err
}

func prependPathList(key, dir string) error {
	value := dir
	if old := os.Getenv(key); old != "" {
		value = dir + string(os.PathListSeparator) + old
	}
	return os.Setenv(key, value)
}
