package jvm

import (
	"os"

	"github.com/joshrwolf/starter/internal/runtime"
	"golang.org/x/sys/unix"
)

func streamFD(stream runtime.Stream) (int, error) {
	switch stream {
	case runtime.Stdin:
		return unix.Stdin, nil
	case runtime.Stdout:
		return unix.Stdout, nil
	case runtime.Stderr:
		return unix.Stderr, nil
	}
	return -1, unix.EINVAL
}

func retarget(stream runtime.Stream, f *os.File) error {
	fd, err := streamFD(stream)
	if err != nil {
		return err
	}
	return unix.Dup3(int(f.Fd()), fd, 0)
}

func duplicate(stream runtime.Stream) (*os.File, error) {
	fd, err := streamFD(stream)
	if err != nil {
		return nil, err
	}
	dup, err := unix.Dup(fd)
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(dup)
	return os.NewFile(uintptr(dup), stream.String()), nil
}
