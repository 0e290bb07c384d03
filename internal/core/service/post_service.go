package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
)

type PostService struct {
	repo ports.PostRepository
}

func NewPostService(repo ports.PostRepository) *PostService {
	return &PostService{repo: repo}
}

// List returns every post, never nil.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// Get returns domain.ErrPostNotFound for a missing id instead of an empty payload.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPostID
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}
