package launcher

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/joshrwolf/starter/internal/runtime"
	"github.com/joshrwolf/starter/internal/startup"
)

const (
	// MainClass holds the application entry point
	MainClass = "com/github/kr328/clash/MainKt"
	// MainMethod is the static entry point
	MainMethod = "main"
	// MainSignature is the entry point signature
	MainSignature = "(L" + startup.ParametersClass + ";)V"
)

// State is a step of a launch
type State int

const (
	// Idle is the state before anything was attempted
	Idle State = iota
	// Located means the runtime library was found
	Located
	// Loaded means a runtime instance was created
	Loaded
	// ClassResolved means the main class was found
	ClassResolved
	// MethodResolved means the entry point method was found
	MethodResolved
	// Invoked means the entry point is running or has returned
	Invoked
	// Completed means the entry point returned without an exception
	Completed
	// Faulted means the entry point left an exception pending
	Faulted
	// Destroyed means the runtime instance was torn down
	Destroyed
)

// String returns the lower-case name of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Located:
		return "located"
	case Loaded:
		return "loaded"
	case ClassResolved:
		return "class-resolved"
	case MethodResolved:
		return "method-resolved"
	case Invoked:
		return "invoked"
	case Completed:
		return "completed"
	case Faulted:
		return "faulted"
	case Destroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Launcher runs the application entry point inside a freshly created
// runtime. A Launcher is used for a single launch.
type Launcher struct {
	platform runtime.Platform
	appDir   string
	options  runtime.LoadOptions

	state State
}

// New creates a Launcher for the application in appDir
func New(platform runtime.Platform, appDir string, options []string) *Launcher {
	return &Launcher{
		platform: platform,
		appDir:   appDir,
		options:  runtime.LoadOptions{Options: options},
	}
}

// State returns where the launch got to
func (l *Launcher) State() State {
	return l.state
}

func (l *Launcher) transition(ctx context.Context, to State) {
	clog.FromContext(ctx).Debug("launch state", "from", l.state, "to", to)
	l.state = to
}

// Launch locates and creates the runtime, calls the entry point with
// params and destroys the runtime on every path once it was created. It
// blocks for as long as the application runs.
func (l *Launcher) Launch(ctx context.Context, params *startup.Parameters) error {
	log := clog.FromContext(ctx)

	library, err := l.platform.FindLibrary(l.appDir)
	if err != nil {
		return Stage(StageLoadRuntime, err)
	}
	l.transition(ctx, Located)
	log.Info("found java runtime", "library", library)

	instance, err := l.platform.Load(ctx, library, l.options)
	if err != nil {
		return Stage(StageLoadRuntime, err)
	}
	l.transition(ctx, Loaded)

	defer func() {
		if derr := instance.Destroy(); derr != nil {
			log.Warn("destroying java runtime", "error", derr)
		}
		l.transition(ctx, Destroyed)
	}()

	env := instance.Env()

	class, err := env.FindClass(MainClass)
	if err != nil {
		env.ExceptionDescribe()
		return Stage(StageInvalidPackage, fmt.Errorf("%w: %w", ErrInvalidPackage, err))
	}
	l.transition(ctx, ClassResolved)

	method, err := env.GetStaticMethodID(class, MainMethod, MainSignature)
	if err != nil {
		env.ExceptionDescribe()
		return Stage(StageInvalidPackage, fmt.Errorf("%w: %w", ErrInvalidPackage, err))
	}
	l.transition(ctx, MethodResolved)

	obj, err := params.Object(env)
	if err != nil {
		if env.ExceptionCheck() {
			env.ExceptionDescribe()
		}
		return Stage(StageInvalidPackage, fmt.Errorf("%w: %w", ErrInvalidPackage, err))
	}

	log.Info("invoking entry point", "class", MainClass, "base_directory", params.BaseDirectory)
	l.transition(ctx, Invoked)
	env.CallStaticVoidMethod(class, method, runtime.Object(obj))

	if env.ExceptionCheck() {
		env.ExceptionDescribe()
		l.transition(ctx, Faulted)
		return Stage(StageUnexpectedException, ErrUnexpectedException)
	}

	l.transition(ctx, Completed)
	return nil
}
