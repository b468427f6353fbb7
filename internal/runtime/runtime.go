package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when no runtime library exists in any of the
	// searched locations.
	ErrNotFound = errors.New("java runtime not found")

	// ErrUnavailable is returned by an Env when a class, method or
	// conversion the caller asked for does not exist in the runtime.
	ErrUnavailable = errors.New("unavailable")

	// ErrUnsupported is returned by platforms the starter cannot run on.
	ErrUnsupported = errors.New("unsupported platform")
)

// Platform locates, loads and wires up the runtime for one operating system
type Platform interface {
	// FindLibrary returns the path of the runtime shared library for the
	// application rooted at appRoot
	FindLibrary(appRoot string) (string, error)

	// Load opens the library and creates a runtime instance with the given
	// options. The caller must Destroy the returned instance.
	Load(ctx context.Context, library string, opts LoadOptions) (Instance, error)

	// RetargetStandardStream points the process-wide standard stream at f
	RetargetStandardStream(stream Stream, f *os.File) error

	// DuplicateStandardStream returns an independent handle to whatever
	// stream currently points at. The caller owns the returned file.
	DuplicateStandardStream(stream Stream) (*os.File, error)
}

// Instance is a created runtime
type Instance interface {
	// Env returns the call interface bound to the creating thread
	Env() Env

	// Destroy tears the runtime down. It is safe to call more than once.
	Destroy() error
}

// LoadOptions configures runtime creation
type LoadOptions struct {
	// Options are passed verbatim as runtime init options, in order
	Options []string

	// IgnoreUnrecognized tells the runtime to skip options it does not know
	IgnoreUnrecognized bool
}

// Stream identifies one of the process standard streams
type Stream int

const (
	// Stdin is the process standard input
	Stdin Stream = iota
	// Stdout is the process standard output
	Stdout
	// Stderr is the process standard error
	Stderr
)

// String returns the conventional name of the stream
func (s Stream) String() string {
	switch s {
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	}
	return fmt.Sprintf("stream(%d)", int(s))
}

// LoadErrorKind classifies a LoadError
type LoadErrorKind int

const (
	// OpenFailed means the OS loader rejected the library
	OpenFailed LoadErrorKind = iota + 1
	// SymbolMissing means the library does not export the create symbol
	SymbolMissing
	// InitFailed means runtime creation returned a non-success status
	InitFailed
)

func (k LoadErrorKind) String() string {
	switch k {
	case OpenFailed:
		return "open failed"
	case SymbolMissing:
		return "symbol missing"
	case InitFailed:
		return "init failed"
	}
	return "unknown"
}

// LoadError reports why a runtime library could not be loaded or created
type LoadError struct {
	Kind    LoadErrorKind
	Library string

	// Message carries the OS loader message for OpenFailed and the symbol
	// name for SymbolMissing
	Message string

	// Code is the status returned by the create call for InitFailed
	Code int32
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case OpenFailed:
		return fmt.Sprintf("open %s: %s", e.Library, e.Message)
	case SymbolMissing:
		return fmt.Sprintf("invalid java runtime %s: missing symbol %s", e.Library, e.Message)
	case InitFailed:
		return fmt.Sprintf("create java vm from %s failed with code %d", e.Library, e.Code)
	}
	return fmt.Sprintf("load %s: %s", e.Library, e.Kind)
}
