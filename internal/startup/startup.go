package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/joshrwolf/starter/internal/manifest"
	"github.com/joshrwolf/starter/internal/runtime"
)

const (
	// BaseDirCommunity is the data directory name of the community build
	BaseDirCommunity = "clash-multiplatform-foss"
	// BaseDirPremium is the data directory name of the premium build
	BaseDirPremium = "clash-multiplatform"

	// ParametersClass is the parameter object type of the hosted application
	ParametersClass = "com/github/kr328/clash/StartupParameters"
	// ParametersConstructor is the signature of its constructor
	ParametersConstructor = "(Ljava/lang/String;ZZLjava/lang/String;[Ljava/lang/String;)V"

	stringClass = "java/lang/String"
)

// Options are the command line options the starter understands
type Options struct {
	BaseDirectory string
	NoShortcut    bool
	HideWindow    bool
}

// Parameters is handed to the application entry point
type Parameters struct {
	BaseDirectory string
	NoShortcut    bool
	HideWindow    bool

	// Starter is the path of the starter executable
	Starter string

	// Arguments are the starter's command line arguments without argv[0]
	Arguments []string
}

// New builds the startup parameters. An empty base directory resolves to
// the per-user default for the build described by md; an explicit one is
// passed through untouched. Text that is not valid UTF-8 is rejected.
func New(opts Options, md *manifest.Metadata, starter string, args []string) (*Parameters, error) {
	baseDir := opts.BaseDirectory
	if baseDir == "" {
		dir, err := DefaultBaseDir(md)
		if err != nil {
			return nil, err
		}
		baseDir = displayPath(dir)
	}
	starter = displayPath(starter)

	if !utf8.ValidString(baseDir) {
		return nil, fmt.Errorf("base directory %q is not valid UTF-8", baseDir)
	}
	if !utf8.ValidString(starter) {
		return nil, fmt.Errorf("starter path %q is not valid UTF-8", starter)
	}
	for i, arg := range args {
		if !utf8.ValidString(arg) {
			return nil, fmt.Errorf("argument %d %q is not valid UTF-8", i+1, arg)
		}
	}

	return &Parameters{
		BaseDirectory: baseDir,
		NoShortcut:    opts.NoShortcut,
		HideWindow:    opts.HideWindow,
		Starter:       starter,
		Arguments:     append([]string(nil), args...),
	}, nil
}

// FromProcess builds the startup parameters from the running process
func FromProcess(opts Options, md *manifest.Metadata) (*Parameters, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}
	return New(opts, md, exe, os.Args[1:])
}

// DefaultBaseDir returns the per-user data directory for the build
func DefaultBaseDir(md *manifest.Metadata) (string, error) {
	dir, err := userDataDir()
	if err != nil {
		return "", err
	}
	if md != nil && md.IsPremium {
		return filepath.Join(dir, BaseDirPremium), nil
	}
	return filepath.Join(dir, BaseDirCommunity), nil
}

// Object converts the parameters into a StartupParameters instance
// inside the runtime.
func (p *Parameters) Object(env runtime.Env) (runtime.Ref, error) {
	baseDir, err := env.NewString(p.BaseDirectory)
	if err != nil {
		return 0, fmt.Errorf("converting base directory: %w", err)
	}
	starter, err := env.NewString(p.Starter)
	if err != nil {
		return 0, fmt.Errorf("converting starter path: %w", err)
	}
	args, err := stringArray(env, p.Arguments)
	if err != nil {
		return 0, fmt.Errorf("converting arguments: %w", err)
	}

	class, err := env.FindClass(ParametersClass)
	if err != nil {
		return 0, err
	}
	ctor, err := env.GetMethodID(class, "<init>", ParametersConstructor)
	if err != nil {
		return 0, err
	}

	return env.NewObject(class, ctor,
		runtime.Object(baseDir),
		runtime.Bool(p.NoShortcut),
		runtime.Bool(p.HideWindow),
		runtime.Object(starter),
		runtime.Object(args),
	)
}

func stringArray(env runtime.Env, values []string) (runtime.Ref, error) {
	class, err := env.FindClass(stringClass)
	if err != nil {
		return 0, err
	}
	array, err := env.NewObjectArray(len(values), class)
	if err != nil {
		return 0, err
	}
	for i, v := range values {
		s, err := env.NewString(v)
		if err != nil {
			return 0, err
		}
		if err := env.SetObjectArrayElement(array, i, s); err != nil {
			return 0, err
		}
	}
	return array, nil
}
