package ports

import (
	"context"

	"github.com/creativehub/services-hub/internal/core/domain"
)

// PostRepository is read-only: no create/update/delete path is exposed.
type PostRepository interface {
	List(ctx context.Context) ([]domain.Post, error)
	// FindByID returns domain.ErrPostNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
}
