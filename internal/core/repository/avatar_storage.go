package repository

import (
	"context"
	"io"
)

// AvatarStorage persists avatar images under a flat namespace of file names.
type AvatarStorage interface {
	Save(ctx context.Context, name, contentType string, data []byte) error
	// Open returns domain.ErrAvatarNotFound when name does not exist.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}
