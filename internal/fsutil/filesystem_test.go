package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryFileSystem_CreateThenOpen(t *testing.T) {
	m := NewMemoryFileSystem()

	w, err := m.Create("out/report.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := io.WriteString(w, "Part One : 79\n"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := m.Open("out//report.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "Part One : 79\n" {
		t.Errorf("got %q", data)
	}
	if names := m.Names(); len(names) != 1 || names[0] != filepath.Clean("out/report.txt") {
		t.Errorf("Names() = %v", names)
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	m := NewMemoryFileSystem()
	if _, err := m.Open("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Open(missing) = %v, want ErrNotExist", err)
	}
	if _, err := m.ReadFile("nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) = %v, want ErrNotExist", err)
	}
}

func TestMemoryFileSystem_WriteFileCopies(t *testing.T) {
	m := NewMemoryFileSystem()
	data := []byte("abc")
	m.WriteFile("a", data)
	data[0] = 'x'

	got, err := m.ReadFile("a")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("stored data changed with caller's slice: %q", got)
	}
}

func TestOSFileSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	var osfs OSFileSystem

	w, err := osfs.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	io.WriteString(w, "hello")
	w.Close()

	r, err := osfs.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}
	if _, err := osfs.Open(path + ".missing"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}
