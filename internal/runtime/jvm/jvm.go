package jvm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/joshrwolf/starter/internal/runtime"
)

// Platform is the JVM implementation of runtime.Platform for the operating
// system the binary was built for.
type Platform struct {
	locator *Locator
}

// New creates a new JVM platform
func New() *Platform {
	return &Platform{
		locator: NewLocator(),
	}
}

// FindLibrary implements runtime.Platform
func (p *Platform) FindLibrary(appRoot string) (string, error) {
	return p.locator.Find(appRoot)
}

// Load implements runtime.Platform. It must be called from the OS thread
// that will later use the returned instance's Env.
func (p *Platform) Load(ctx context.Context, library string, opts runtime.LoadOptions) (runtime.Instance, error) {
	log := clog.FromContext(ctx)

	if err := extendSearchPath(filepath.Dir(library)); err != nil {
		log.Warn("extending library search path", "var", searchPathVar, "error", err)
	}

	lib, err := openLibrary(library)
	if err != nil {
		return nil, &runtime.LoadError{Kind: runtime.OpenFailed, Library: library, Message: err.Error()}
	}
	log.Debug("opened runtime library", "path", library)

	vm, err := createVM(lib, opts)
	if err != nil {
		return nil, err
	}
	log.Debug("created java vm", "options", opts.Options, "destroyable", vm.destroy != 0)

	return vm, nil
}

// RetargetStandardStream implements runtime.Platform
func (p *Platform) RetargetStandardStream(stream runtime.Stream, f *os.File) error {
	if err := retarget(stream, f); err != nil {
		return fmt.Errorf("retarget %s: %w", stream, err)
	}
	return nil
}

// DuplicateStandardStream implements runtime.Platform
func (p *Platform) DuplicateStandardStream(stream runtime.Stream) (*os.File, error) {
	f, err := duplicate(stream)
	if err != nil {
		return nil, fmt.Errorf("duplicate %s: %w", stream, err)
	}
	return f, nil
}

// String returns the platform name
func (p *Platform) String() string {
	return "jvm"
}

var _ runtime.Platform = (*Platform)(nil)
