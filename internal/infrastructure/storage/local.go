package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
)

type localStorage struct {
	dir string
}

// NewLocalStorage stores avatars as plain files in dir, creating it if needed.
func NewLocalStorage(dir string) (repository.AvatarStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Save(_ context.Context, name, _ string, data []byte) (err error) {
	if !validName(name) {
		return fmt.Errorf("invalid avatar name: %q", name)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close avatar file: %w", cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write avatar file: %w", err)
	}
	return nil
}

func (s *localStorage) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	if !validName(name) {
		return nil, "", domain.ErrAvatarNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", domain.ErrAvatarNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open avatar file: %w", err)
	}
	return f, contentType(name), nil
}

// validName accepts a single path element only.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
