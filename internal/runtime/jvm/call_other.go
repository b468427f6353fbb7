//go:build !linux && !windows

package jvm

// call is never reached on these platforms because openLibrary fails first.
func call(fn uintptr, args ...uintptr) uintptr {
	panic("jvm: foreign calls are not supported on this platform")
}
