package ports

import (
	"context"

	"github.com/creativehub/services-hub/internal/core/domain"
)

// UserRepository defines the persistence operations behind registration and login.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrUserExists on a unique violation.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
