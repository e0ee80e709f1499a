package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps attachment content on the local filesystem under RootDir.
// Locations look like "<URLPrefix>/<uuid><ext>".
type FileStore struct {
	RootDir   string
	URLPrefix string
}

func NewFileStore(rootDir, urlPrefix string) (*FileStore, error) {
	rootDir = filepath.Clean(rootDir)
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}
	return &FileStore{RootDir: rootDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *FileStore) Store(originalName string, r io.Reader) (string, int64, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	abs := filepath.Join(s.RootDir, name)

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(abs)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	return path.Join(s.URLPrefix, name), size, nil
}

func (s *FileStore) Open(location string) (io.ReadCloser, error) {
	f, err := os.Open(s.resolve(location))
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Delete treats a missing file as already deleted.
func (s *FileStore) Delete(location string) error {
	err := os.Remove(s.resolve(location))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// resolve only ever looks at the last path element of location.
func (s *FileStore) resolve(location string) string {
	return filepath.Join(s.RootDir, path.Base(filepath.ToSlash(location)))
}
