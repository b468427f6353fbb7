//go:build linux || windows

package jvm

import (
	"github.com/ebitengine/purego"
)

// call invokes a C function pointer with the platform calling convention
func call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}
