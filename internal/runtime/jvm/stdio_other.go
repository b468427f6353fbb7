//go:build !linux && !windows

package jvm

import (
	"os"

	"github.com/joshrwolf/starter/internal/runtime"
)

func retarget(stream runtime.Stream, f *os.File) error {
	return runtime.ErrUnsupported
}

func duplicate(stream runtime.Stream) (*os.File, error) {
	return nil, runtime.ErrUnsupported
}
