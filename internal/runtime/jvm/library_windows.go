package jvm

import (
	"golang.org/x/sys/windows"
)

// library is a loaded DLL module
type library struct {
	path   string
	handle windows.Handle
}

func openLibrary(path string) (*library, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil {
		return nil, err
	}
	return &library{path: path, handle: handle}, nil
}

func (l *library) symbol(name string) (uintptr, error) {
	return windows.GetProcAddress(l.handle, name)
}

func (l *library) close() error {
	return windows.FreeLibrary(l.handle)
}
