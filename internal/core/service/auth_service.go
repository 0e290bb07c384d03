package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/pkg/email"
	"github.com/creativehub/services-hub/internal/pkg/metrics"
)

// tokenClaims is the JWT payload: the user identity plus the registered
// sub/iat/exp claims.
type tokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo       ports.UserRepository
	jwtSecret  []byte
	bcryptCost int
	// dummyHash is compared on unknown emails so both login failures cost
	// one bcrypt comparison.
	dummyHash []byte
	compare   func(hash, password []byte) error
	now       func() time.Time
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("services-hub-no-such-user"), bcryptCost)
	if err != nil {
		log.Warn().Err(err).Msg("dummy password hash")
	}
	return &AuthService{
		repo:       repo,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		compare:    bcrypt.CompareHashAndPassword,
		now:        time.Now,
		log:        log,
	}
}

// Register creates an account unless the email is already taken. The lookup
// and the insert are separate statements; a concurrent duplicate is caught
// by the users.email unique constraint and reported as ErrUserExists too.
func (s *AuthService) Register(ctx context.Context, address, password string) (*domain.User, error) {
	address = email.Normalize(address)

	if _, err := s.repo.FindByEmail(ctx, address); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "user_exists").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        address,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "user_exists").Inc()
			return nil, err
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", "error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the password and issues a token valid for domain.TokenTTL.
// An unknown email and a wrong password yield the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, address, password string) (*domain.IssuedToken, error) {
	address = email.Normalize(address)

	user, err := s.repo.FindByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.compare(s.dummyHash, []byte(password))
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.compare([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return token, nil
}

// Verify parses a token signed by Login and returns its identity claims.
func (s *AuthService) Verify(raw string) (*domain.TokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return &domain.TokenClaims{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *AuthService) issue(user *domain.User) (*domain.IssuedToken, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(domain.TokenTTL)

	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &domain.IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}
