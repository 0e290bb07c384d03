package ports

import (
	"context"

	"github.com/creativehub/services-hub/internal/core/domain"
)

type PostService interface {
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
}
