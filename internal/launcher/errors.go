package launcher

import (
	"errors"
)

// Stage labels prefixed to fatal errors
const (
	StageAppDir              = "App dir not found"
	StageMetadata            = "Resolve app metadata"
	StageStartupParameters   = "Resolve startup parameters"
	StageLoadRuntime         = "Load runtime"
	StageInvalidPackage      = "Invalid application package"
	StageUnexpectedException = "Unexpected exception"
)

var (
	// ErrInvalidPackage means the application jar does not provide the
	// expected entry point or parameter type
	ErrInvalidPackage = errors.New("application does not match the starter contract")

	// ErrUnexpectedException means the entry point returned with a pending
	// exception
	ErrUnexpectedException = errors.New("entry point raised an exception")
)

// StageError labels a fatal error with the launch stage it happened in
type StageError struct {
	Stage string
	Err   error
}

// Stage wraps err with a stage label, nil stays nil
func Stage(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
