package repository

import (
	"context"

	"github.com/martijn/inkwell/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	// FindByID returns the post with its Author populated.
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	// List returns every post in insertion order with authors populated.
	List(ctx context.Context) ([]*domain.Post, error)
}
