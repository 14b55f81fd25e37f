package service

import (
	"context"

	"github.com/martijn/inkwell/internal/core/domain"
	"github.com/martijn/inkwell/internal/core/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost stores a post owned by author, dated now in UTC.
func (s *PostService) CreatePost(ctx context.Context, author *domain.User, title, content string) (*domain.Post, error) {
	post := domain.NewPost(title, content, author)
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns domain.ErrPostNotFound for an unknown id.
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	return s.postRepo.FindByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.postRepo.List(ctx)
}
