package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/clog/slag"
	charmlog "github.com/charmbracelet/log"
	"github.com/joshrwolf/starter/internal/builder"
	"github.com/joshrwolf/starter/internal/config"
	"github.com/joshrwolf/starter/internal/launcher"
	"github.com/joshrwolf/starter/internal/logfile"
	"github.com/joshrwolf/starter/internal/manifest"
	"github.com/joshrwolf/starter/internal/runtime"
	"github.com/joshrwolf/starter/internal/runtime/jvm"
	"github.com/joshrwolf/starter/internal/startup"
	"github.com/spf13/cobra"
)

// flushTimeout bounds how long exit waits for captured output to drain
const flushTimeout = 5 * time.Second

// The JNI environment is bound to the thread that created the VM, so the
// whole launch runs on the main thread.
func init() {
	goruntime.LockOSThread()
}

type options struct {
	logLevel slag.Level
	startup.Options

	platform runtime.Platform
	console  *os.File
	pipeline *logfile.Pipeline
}

// setupLogging configures logging for the command
func (o *options) setupLogging(ctx context.Context) context.Context {
	l := charmlog.NewWithOptions(stderr{}, charmlog.Options{
		Level:           charmlog.Level(o.logLevel),
		ReportTimestamp: true,
		Prefix:          "starter",
	})
	ctx = clog.WithLogger(ctx, clog.New(l))
	slog.SetDefault(slog.New(l))
	return ctx
}

// stderr writes to whatever os.Stderr is at the time of the write
type stderr struct{}

func (stderr) Write(p []byte) (int, error) {
	return os.Stderr.Write(p)
}

// reportedError is a fatal error already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func main() {
	if err := run(context.Background()); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "[Starter] err=%v | Launch failed\n", err)
			showErrorDialog(err.Error())
		}
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	opts := &options{
		platform: jvm.New(),
		console:  terminalStderr(),
	}

	rootCmd := &cobra.Command{
		Use:           "starter",
		Short:         "Starter of Clash for Desktop",
		Version:       "1.0.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx = opts.setupLogging(ctx)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().Var(&opts.logLevel, "log-level", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&opts.BaseDirectory, "base-directory", "", "Directory for application data and logs")
	rootCmd.Flags().BoolVar(&opts.NoShortcut, "no-shortcut", false, "Do not create desktop shortcuts")
	rootCmd.Flags().BoolVar(&opts.HideWindow, "hide-window", false, "Start with the main window hidden")

	return rootCmd.ExecuteContext(ctx)
}

func (o *options) run(ctx context.Context) error {
	err := o.launch(ctx)
	if err != nil {
		o.reportFatal(err)
		err = &reportedError{err: err}
	}

	if o.pipeline != nil {
		sctx, cancel := context.WithTimeout(ctx, flushTimeout)
		defer cancel()
		_ = o.pipeline.Shutdown(sctx)
	}

	return err
}

func (o *options) launch(ctx context.Context) error {
	log := clog.FromContext(ctx)

	appDir, err := currentAppDir()
	if err != nil {
		return launcher.Stage(launcher.StageAppDir, err)
	}
	log.Debug("resolved app dir", "path", appDir)

	cfg, err := config.Load(appDir)
	if err != nil {
		return launcher.Stage(launcher.StageStartupParameters, err)
	}

	b := builder.New(appDir, cfg.JVM)

	md, err := manifest.Resolve(b.ClassPath())
	if err != nil {
		return launcher.Stage(launcher.StageMetadata, err)
	}

	params, err := startup.FromProcess(o.Options, md)
	if err != nil {
		return launcher.Stage(launcher.StageStartupParameters, err)
	}

	vmOptions, err := b.Build()
	if err != nil {
		return launcher.Stage(launcher.StageStartupParameters, err)
	}

	// Output capture must be in place before the application runs, but
	// a launch without logs beats no launch at all.
	pipeline, err := logfile.Start(ctx, params.BaseDirectory, o.platform, logfile.Options{MaxSize: cfg.MaxLogSize()})
	if err != nil {
		log.Warn("capturing output", "error", err)
	} else {
		o.pipeline = pipeline
	}

	return launcher.New(o.platform, appDir, vmOptions).Launch(ctx, params)
}

// reportFatal shows err on stderr, on the terminal the starter was started
// from when stderr is captured, and in a dialog where the platform has one.
func (o *options) reportFatal(err error) {
	msg := fmt.Sprintf("[Starter] err=%v | Launch failed\n", err)
	fmt.Fprint(os.Stderr, msg)
	if o.pipeline != nil && o.console != nil {
		fmt.Fprint(o.console, msg)
	}
	showErrorDialog(err.Error())
}

func currentAppDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
