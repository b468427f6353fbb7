package logfile

import (
	"io"
	"os"
	"path/filepath"
)

const (
	// FileName is the name of the current log file inside the base directory
	FileName = "app.log"

	// OldSuffix is appended to FileName for the previous rotation
	OldSuffix = ".old"

	// DefaultMaxSize is the size at which the log file is rotated
	DefaultMaxSize = 20 * 1024 * 1024
)

// Rotator appends to <dir>/app.log and rotates it to app.log.old once
// maxSize bytes have been written or a write fails. Write never fails:
// when no log file can be opened the output is discarded.
//
// A Rotator is not safe for concurrent use; the pipeline worker is its
// only writer.
type Rotator struct {
	dir     string
	path    string
	oldPath string
	maxSize int64

	sink    io.WriteCloser
	written int64
}

// NewRotator opens the log file in dir, moving any existing one aside
func NewRotator(dir string, maxSize int64) *Rotator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	path := filepath.Join(dir, FileName)
	r := &Rotator{
		dir:     dir,
		path:    path,
		oldPath: path + OldSuffix,
		maxSize: maxSize,
	}
	r.open()
	return r
}

// Write appends p to the current log file
func (r *Rotator) Write(p []byte) (int, error) {
	n, err := r.sink.Write(p)
	if err == nil {
		r.written += int64(n)
	}
	if err != nil || r.written >= r.maxSize {
		r.rotate()
	}
	return len(p), nil
}

// Discarding reports whether output currently goes nowhere
func (r *Rotator) Discarding() bool {
	_, ok := r.sink.(discard)
	return ok
}

// Close closes the current log file
func (r *Rotator) Close() error {
	return r.sink.Close()
}

func (r *Rotator) rotate() {
	_ = r.sink.Close()
	r.open()
}

func (r *Rotator) open() {
	r.written = 0

	if _, err := os.Stat(r.path); err == nil {
		_ = os.Remove(r.oldPath)
		_ = os.Rename(r.path, r.oldPath)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.sink = discard{}
		return
	}

	f, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		r.sink = discard{}
		return
	}
	r.sink = f
}

// discard accepts and drops everything
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }
