package ports

import (
	"context"

	"github.com/creativehub/services-hub/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.IssuedToken, error)
	Verify(token string) (*domain.TokenClaims, error)
}
