package jvm

import (
	"os"
	"sync"

	"github.com/joshrwolf/starter/internal/runtime"
	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procAllocConsole     = kernel32.NewProc("AllocConsole")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procShowWindow       = user32.NewProc("ShowWindow")

	consoleOnce sync.Once
)

const swHide = 0

// allocHiddenConsole gives a GUI-subsystem process a console so handles
// inherited by the JVM are valid, then hides its window.
func allocHiddenConsole() {
	consoleOnce.Do(func() {
		if r, _, _ := procAllocConsole.Call(); r == 0 {
			return
		}
		if hwnd, _, _ := procGetConsoleWindow.Call(); hwnd != 0 {
			procShowWindow.Call(hwnd, swHide)
		}
	})
}

func stdHandleID(stream runtime.Stream) (uint32, error) {
	switch stream {
	case runtime.Stdin:
		return windows.STD_INPUT_HANDLE, nil
	case runtime.Stdout:
		return windows.STD_OUTPUT_HANDLE, nil
	case runtime.Stderr:
		return windows.STD_ERROR_HANDLE, nil
	}
	return 0, windows.ERROR_INVALID_PARAMETER
}

func retarget(stream runtime.Stream, f *os.File) error {
	allocHiddenConsole()

	id, err := stdHandleID(stream)
	if err != nil {
		return err
	}

	h := windows.Handle(f.Fd())
	if err := windows.SetHandleInformation(h, windows.HANDLE_FLAG_INHERIT, windows.HANDLE_FLAG_INHERIT); err != nil {
		return err
	}
	if err := windows.SetStdHandle(id, h); err != nil {
		return err
	}

	// The os package captured the standard handles at startup.
	switch stream {
	case runtime.Stdin:
		os.Stdin = f
	case runtime.Stdout:
		os.Stdout = f
	case runtime.Stderr:
		os.Stderr = f
	}
	return nil
}

func duplicate(stream runtime.Stream) (*os.File, error) {
	id, err := stdHandleID(stream)
	if err != nil {
		return nil, err
	}
	h, err := windows.GetStdHandle(id)
	if err != nil {
		return nil, err
	}
	if h == 0 || h == windows.InvalidHandle {
		return nil, windows.ERROR_INVALID_HANDLE
	}

	process := windows.CurrentProcess()
	var dup windows.Handle
	if err := windows.DuplicateHandle(process, h, process, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS); err != nil {
		return nil, err
	}
	return os.NewFile(uintptr(dup), stream.String()), nil
}
