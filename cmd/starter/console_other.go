//go:build !linux && !windows

package main

import (
	"os"

	"github.com/mattn/go-isatty"
)

func terminalStderr() *os.File {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}
	return os.Stderr
}

func showErrorDialog(msg string) {}
