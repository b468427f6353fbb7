package jvm

import (
	"os"
	"strings"
	"testing"
	"unsafe"
)

func TestPrependPathList(t *testing.T) {
	const key = "STARTER_TEST_SEARCH_PATH"
	sep := string(os.PathListSeparator)

	tests := []struct {
		name string
		old  string
		dir  string
		want string
	}{
		{name: "empty", old: "", dir: "/opt/jre/lib/server", want: "/opt/jre/lib/server"},
		{name: "preserves existing", old: "/a" + sep + "/b", dir: "/opt/jre", want: "/opt/jre" + sep + "/a" + sep + "/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.old)
			if err := prependPathList(key, tt.dir); err != nil {
				t.Fatalf("prependPathList() error = %v", err)
			}
			if got := os.Getenv(key); got != tt.want {
				t.Errorf("%s = %q, want %q", key, got, tt.want)
			}
		})
	}
}

func TestNewInitArgs(t *testing.T) {
	opts := []string{"-Djava.class.path=/app/app.jar", "-Xmx512m", "-XX:+UseSerialGC"}

	a, err := newInitArgs(opts, false)
	if err != nil {
		t.Fatalf("newInitArgs() error = %v", err)
	}

	if a.block.version != jniVersion18 {
		t.Errorf("version = %#x, want %#x", a.block.version, jniVersion18)
	}
	if int(a.block.nOptions) != len(opts) {
		t.Fatalf("nOptions = %d, want %d", a.block.nOptions, len(opts))
	}
	if a.block.ignoreUnrecognized != 0 {
		t.Errorf("ignoreUnrecognized = %d, want 0", a.block.ignoreUnrecognized)
	}
	if a.block.options != &a.options[0] {
		t.Error("block does not point at the option array")
	}

	for i, opt := range opts {
		buf := a.buffers[i]
		if buf[len(buf)-1] != 0 {
			t.Errorf("option %d is not NUL terminated", i)
		}
		if a.options[i].optionString != &buf[0] {
			t.Errorf("option %d does not point at its buffer", i)
		}
		got := unsafe.String(a.options[i].optionString, len(buf)-1)
		if got != opt {
			t.Errorf("option %d = %q, want %q", i, got, opt)
		}
	}

	if a.pointer() != uintptr(unsafe.Pointer(&a.block)) {
		t.Error("pointer() does not address the init block")
	}
}

func TestNewInitArgsEmpty(t *testing.T) {
	a, err := newInitArgs(nil, true)
	if err != nil {
		t.Fatalf("newInitArgs() error = %v", err)
	}
	if a.block.nOptions != 0 || a.block.options != nil {
		t.Errorf("empty init args = %+v", a.block)
	}
	if a.block.ignoreUnrecognized != 1 {
		t.Errorf("ignoreUnrecognized = %d, want 1", a.block.ignoreUnrecognized)
	}
}

func TestNewInitArgsRejectsNUL(t *testing.T) {
	_, err := newInitArgs([]string{"-Dbad=\x00"}, false)
	if err == nil || !strings.Contains(err.Error(), "NUL") {
		t.Errorf("newInitArgs() error = %v, want NUL error", err)
	}
}

func TestPlatformString(t *testing.T) {
	if got := New().String(); got != "jvm" {
		t.Errorf("String() = %q, want jvm", got)
	}
}

func TestVMDestroyTwice(t *testing.T) {
	vm := &VM{}
	for i := 0; i < 2; i++ {
		if err := vm.Destroy(); err != nil {
			t.Fatalf("Destroy() call %d error = %v", i+1, err)
		}
	}
}
