package logfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	return info.Size()
}

func TestRotatorRotatesAtCeiling(t *testing.T) {
	dir := t.TempDir()
	const ceiling = 100
	line := []byte(strings.Repeat("x", 29) + "\n") // 30 bytes

	r := NewRotator(dir, ceiling)
	for i := 0; i < 5; i++ {
		if _, err := r.Write(line); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	current := filepath.Join(dir, FileName)
	old := current + OldSuffix

	// the fourth line crosses the ceiling, the fifth starts a fresh file
	if got := fileSize(t, old); got != 120 {
		t.Errorf("old size = %d, want 120", got)
	}
	if got := fileSize(t, current); got != 30 {
		t.Errorf("current size = %d, want 30", got)
	}
	if total := fileSize(t, old) + fileSize(t, current); total != 150 {
		t.Errorf("total = %d, want 150", total)
	}
}

func TestRotatorReplacesPreviousOld(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, FileName)
	old := current + OldSuffix

	if err := os.WriteFile(old, []byte("ancient\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(current, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRotator(dir, 10)
	if _, err := r.Write([]byte("first line\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Write([]byte("second\n")); err != nil {
		t.Fatal(err)
	}
	r.Close()

	gotOld, err := os.ReadFile(old)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotOld) != "first line\n" {
		t.Errorf("old = %q, want %q", gotOld, "first line\n")
	}
	gotCurrent, err := os.ReadFile(current)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotCurrent) != "second\n" {
		t.Errorf("current = %q, want %q", gotCurrent, "second\n")
	}
}

func TestRotatorStartMovesStaleLogAside(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, FileName)
	if err := os.WriteFile(current, []byte("stale\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRotator(dir, DefaultMaxSize)
	r.Close()

	got, err := os.ReadFile(current + OldSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "stale\n" {
		t.Errorf("old = %q, want stale log", got)
	}
	if size := fileSize(t, current); size != 0 {
		t.Errorf("current size = %d, want 0", size)
	}
}

func TestRotatorCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "base")

	r := NewRotator(dir, DefaultMaxSize)
	defer r.Close()

	if r.Discarding() {
		t.Fatal("rotator discards output for a creatable directory")
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestRotatorUnwritableDirDiscards(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	// a directory below a regular file can never be created
	r := NewRotator(filepath.Join(blocker, "logs"), 16)

	if !r.Discarding() {
		t.Fatal("Discarding() = false, want true")
	}

	payload := bytes.Repeat([]byte("line\n"), 100)
	if err := Drain(bytes.NewReader(payload), r); err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if !r.Discarding() {
		t.Error("rotator recovered an unwritable directory")
	}
}

// failingSink rejects every write
type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) { return 0, errors.New("disk full") }
func (failingSink) Close() error                { return nil }

func TestRotatorRotatesAfterWriteError(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, FileName)

	r := NewRotator(dir, DefaultMaxSize)
	if _, err := r.Write([]byte("one\n")); err != nil {
		t.Fatal(err)
	}

	if err := r.sink.Close(); err != nil {
		t.Fatal(err)
	}
	r.sink = failingSink{}

	lost := []byte("lost\n")
	n, err := r.Write(lost)
	if err != nil || n != len(lost) {
		t.Fatalf("Write() = %d, %v, want %d, nil", n, err, len(lost))
	}
	if r.Discarding() {
		t.Fatal("rotator discards output after reopening a writable directory")
	}

	if _, err := r.Write([]byte("two\n")); err != nil {
		t.Fatal(err)
	}
	r.Close()

	gotOld, err := os.ReadFile(current + OldSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotOld) != "one\n" {
		t.Errorf("old = %q, want %q", gotOld, "one\n")
	}
	gotCurrent, err := os.ReadFile(current)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotCurrent) != "two\n" {
		t.Errorf("current = %q, want %q", gotCurrent, "two\n")
	}
}
