package builder

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joshrwolf/starter/internal/config"
)

// JarName is the application archive shipped next to the starter
const JarName = "clash-multiplatform.jar"

// Builder builds the JVM init options for an application directory
type Builder struct {
	appDir string
	jvm    config.JVM
}

// New creates a new Builder
func New(appDir string, jvm config.JVM) *Builder {
	return &Builder{
		appDir: appDir,
		jvm:    jvm,
	}
}

// ClassPath returns the path of the application jar
func (b *Builder) ClassPath() string {
	return filepath.Join(b.appDir, JarName)
}

// Build returns the ordered init options: class path first, then heap
// ceiling and collector when configured, then any extra options.
func (b *Builder) Build() ([]string, error) {
	opts := []string{"-Djava.class.path=" + b.ClassPath()}

	if b.jvm.MaxHeapMB > 0 {
		opts = append(opts, fmt.Sprintf("-Xmx%dm", b.jvm.MaxHeapMB))
	}

	if b.jvm.GC != "" {
		if !strings.HasPrefix(b.jvm.GC, "-XX:") {
			return nil, fmt.Errorf("gc flag %q is not a -XX option", b.jvm.GC)
		}
		opts = append(opts, b.jvm.GC)
	}

	for _, o := range b.jvm.Options {
		if o == "" {
			continue
		}
		opts = append(opts, o)
	}

	return opts, nil
}
