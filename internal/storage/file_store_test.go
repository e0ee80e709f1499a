package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStoreLifecycle(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewFileStore(root, "/uploads/")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	loc, size, err := s.Store("Report.PDF", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if size != 5 {
		t.Fatalf("expected size 5, got %d", size)
	}
	if !strings.HasPrefix(loc, "/uploads/") || !strings.HasSuffix(loc, ".pdf") {
		t.Fatalf("unexpected location %q", loc)
	}
	if _, err := os.Stat(filepath.Join(root, filepath.Base(loc))); err != nil {
		t.Fatalf("file not on disk: %v", err)
	}

	rc, err := s.Open(loc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "hello" {
		t.Fatalf("unexpected content %q", b)
	}

	if err := s.Delete(loc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(loc); err != nil {
		t.Fatalf("deleting a missing blob is not an error: %v", err)
	}
	if _, err := s.Open(loc); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func TestFileStoreStaysInRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "uploads")
	s, err := NewFileStore(root, "")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := s.Delete("/uploads/../secret.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("file outside root must survive: %v", err)
	}
	if _, err := s.Open("../secret.txt"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}
