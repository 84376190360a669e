package watch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.lua"))
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("error = %v, want ErrPathNotExist", err)
	}
}

func TestNewDirectory(t *testing.T) {
	_, err := New(t.TempDir())
	if !errors.Is(err, ErrIsDirectory) {
		t.Errorf("error = %v, want ErrIsDirectory", err)
	}
}

func TestChangeDebounced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reducer.lua")
	if err := os.WriteFile(path, []byte("-- v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDelay(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("-- v2"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case c := <-w.Changes():
		if c.Path != w.Path() {
			t.Errorf("Change.Path = %q, want %q", c.Path, w.Path())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reducer.lua")
	if err := os.WriteFile(path, []byte("-- v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDelay(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.lua"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-w.Changes():
		t.Errorf("unexpected change for %s", c.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reducer.lua")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Error("Changes() should be closed")
	}
}
