package jvm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshrwolf/starter/internal/runtime"
)

// installRuntime creates a fake runtime library under home/dir
func installRuntime(t *testing.T, home, dir string) string {
	t.Helper()
	lib := filepath.Join(home, dir, libraryName)
	if err := os.MkdirAll(filepath.Dir(lib), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lib, []byte("\x7fELF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return lib
}

func TestLocatorFind(t *testing.T) {
	serverDir, plainDir := libraryDirs[0], libraryDirs[1]

	tests := []struct {
		name string
		// setup installs runtimes and returns the expected library path
		setup   func(t *testing.T, appRoot, pathHome, envHome string) string
		wantErr bool
	}{
		{
			name: "bundled server runtime wins",
			setup: func(t *testing.T, appRoot, pathHome, envHome string) string {
				installRuntime(t, pathHome, serverDir)
				installRuntime(t, envHome, serverDir)
				installRuntime(t, filepath.Join(appRoot, "jre"), plainDir)
				return installRuntime(t, filepath.Join(appRoot, "jre"), serverDir)
			},
		},
		{
			name: "bundled plain runtime before path",
			setup: func(t *testing.T, appRoot, pathHome, envHome string) string {
				installRuntime(t, pathHome, serverDir)
				return installRuntime(t, filepath.Join(appRoot, "jre"), plainDir)
			},
		},
		{
			name: "path runtime before java home",
			setup: func(t *testing.T, appRoot, pathHome, envHome string) string {
				installRuntime(t, envHome, serverDir)
				return installRuntime(t, pathHome, plainDir)
			},
		},
		{
			name: "java home as last resort",
			setup: func(t *testing.T, appRoot, pathHome, envHome string) string {
				return installRuntime(t, envHome, serverDir)
			},
		},
		{
			name: "nothing installed",
			setup: func(t *testing.T, appRoot, pathHome, envHome string) string {
				return ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appRoot := t.TempDir()
			pathHome := t.TempDir()
			envHome := t.TempDir()
			want := tt.setup(t, appRoot, pathHome, envHome)

			l := &Locator{
				LookPath: func(file string) (string, error) {
					if file != "java" {
						t.Errorf("LookPath(%q), want java", file)
					}
					return filepath.Join(pathHome, "bin", "java"), nil
				},
				Getenv: func(key string) string {
					if key == "JAVA_HOME" {
						return envHome
					}
					return ""
				},
			}

			got, err := l.Find(appRoot)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Find() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, runtime.ErrNotFound) {
					t.Errorf("Find() error = %v, want ErrNotFound", err)
				}
				return
			}
			if got != want {
				t.Errorf("Find() = %q, want %q", got, want)
			}
		})
	}
}

func TestLocatorFindWithoutJavaOnPath(t *testing.T) {
	envHome := t.TempDir()
	want := installRuntime(t, envHome, libraryDirs[1])

	l := &Locator{
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		Getenv:   func(string) string { return envHome },
	}

	got, err := l.Find(t.TempDir())
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestLocatorFindSkipsDirectories(t *testing.T) {
	appRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(appRoot, "jre", libraryDirs[0], libraryName), 0o755); err != nil {
		t.Fatal(err)
	}

	l := &Locator{
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
		Getenv:   func(string) string { return "" },
	}

	if _, err := l.Find(appRoot); !errors.Is(err, runtime.ErrNotFound) {
		t.Errorf("Find() error = %v, want ErrNotFound", err)
	}
}

func TestJavaHomesFollowsSymlink(t *testing.T) {
	home := t.TempDir()
	target := filepath.Join(home, "jdk", "bin", "java")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(home, "usr", "bin", "java")
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	homes := javaHomes(link)
	if len(homes) != 2 {
		t.Fatalf("javaHomes() = %v, want 2 entries", homes)
	}
	if homes[0] != filepath.Join(home, "usr") {
		t.Errorf("homes[0] = %q, want %q", homes[0], filepath.Join(home, "usr"))
	}
	// t.TempDir may itself sit behind a symlink, compare resolved forms
	wantReal, _ := filepath.EvalSymlinks(filepath.Join(home, "jdk"))
	if homes[1] != wantReal {
		t.Errorf("homes[1] = %q, want %q", homes[1], wantReal)
	}
}
