//go:build !linux && !windows

package jvm

import (
	"github.com/joshrwolf/starter/internal/runtime"
)

type library struct {
	path string
}

func openLibrary(path string) (*library, error) {
	return nil, runtime.ErrUnsupported
}

func (l *library) symbol(name string) (uintptr, error) {
	return 0, runtime.ErrUnsupported
}

func (l *library) close() error {
	return nil
}
