package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// terminalStderr returns a duplicate of the original stderr when it is a
// terminal, so fatal errors still reach the user after fd 2 is captured.
func terminalStderr() *os.File {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	fd, err := unix.Dup(unix.Stderr)
	if err != nil {
		return nil
	}
	unix.CloseOnExec(fd)
	return os.NewFile(uintptr(fd), "console")
}

func showErrorDialog(msg string) {}
