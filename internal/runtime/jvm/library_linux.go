package jvm

import (
	"github.com/ebitengine/purego"
)

// library is an open shared object
type library struct {
	path   string
	handle uintptr
}

func openLibrary(path string) (*library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, err
	}
	return &library{path: path, handle: handle}, nil
}

func (l *library) symbol(name string) (uintptr, error) {
	return purego.Dlsym(l.handle, name)
}

func (l *library) close() error {
	return purego.Dlclose(l.handle)
}
