package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/creativehub/services-hub/internal/core/domain"
)

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[string]*domain.User
	nextID  int64
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.Email] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, "secret", bcrypt.MinCost, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), " Alice@Example.com ", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected an id to be assigned")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateSequential(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), "bob@example.com", "pass123"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob@example.com", "other456"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// raceRepo lets the existence check pass and fails the insert, as the unique
// constraint does for the losing side of two concurrent registrations.
type raceRepo struct{ *stubUserRepo }

func (r *raceRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func TestAuthService_Register_UniqueViolationMapsToUserExists(t *testing.T) {
	repo := &raceRepo{stubUserRepo: newStubUserRepo()}
	svc := NewAuthService(repo, "secret", bcrypt.MinCost, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "eve@example.com", "pass123"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_LookupFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("db down")
	svc := newAuthSvc(repo)

	_, err := svc.Register(context.Background(), "carl@example.com", "pass123")
	if err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected wrapped infrastructure error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, err := svc.Register(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	issued, err := svc.Login(context.Background(), "carol@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if issued.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(issued.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["email"] != "carol@example.com" {
		t.Fatalf("expected email claim, got %v", claims["email"])
	}
	if claims["userId"] != float64(user.ID) {
		t.Fatalf("expected userId claim %d, got %v", user.ID, claims["userId"])
	}
}

func TestAuthService_Login_TokenValidForExactlyTwoHours(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	if _, err := svc.Register(context.Background(), "dana@example.com", "pass123"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	issued, err := svc.Login(context.Background(), "dana@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if want := issuedAt.Add(2 * time.Hour); !issued.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, issued.ExpiresAt)
	}

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(issued.Token, claims)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	iat, _ := claims.GetIssuedAt()
	exp, _ := claims.GetExpirationTime()
	if exp.Sub(iat.Time) != 2*time.Hour {
		t.Fatalf("expected exp-iat of 2h, got %v", exp.Sub(iat.Time))
	}

	svc.now = func() time.Time { return issuedAt.Add(2*time.Hour - time.Second) }
	if _, err := svc.Verify(issued.Token); err != nil {
		t.Fatalf("token should still be valid just before expiry: %v", err)
	}

	svc.now = func() time.Time { return issuedAt.Add(2*time.Hour + time.Second) }
	if _, err := svc.Verify(issued.Token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass")

	_, wrongPassword := svc.Login(context.Background(), "dave@example.com", "badpass")
	_, unknownUser := svc.Login(context.Background(), "ghost@example.com", "goodpass")

	if !errors.Is(wrongPassword, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if wrongPassword != unknownUser {
		t.Fatalf("expected identical errors, got %v and %v", wrongPassword, unknownUser)
	}
}

func TestAuthService_Login_UnknownEmailStillComparesHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	var compared [][]byte
	svc.compare = func(hash, password []byte) error {
		compared = append(compared, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err := svc.Login(context.Background(), "ghost@example.com", "goodpass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(compared) != 1 {
		t.Fatalf("expected one hash comparison for an unknown email, got %d", len(compared))
	}
	if cost, err := bcrypt.Cost(compared[0]); err != nil || cost != bcrypt.MinCost {
		t.Fatalf("expected a real hash at the configured cost, got cost=%d err=%v", cost, err)
	}
}

func TestAuthService_Verify_RejectsForeignSignature(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	other := NewAuthService(repo, "other-secret", bcrypt.MinCost, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "fay@example.com", "pass123")
	issued, err := other.Login(context.Background(), "fay@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.Verify(issued.Token); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected rejection of token signed with another secret, got %v", err)
	}
}

func TestAuthService_Verify_ReturnsClaims(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	user, _ := svc.Register(context.Background(), "gus@example.com", "pass123")
	issued, _ := svc.Login(context.Background(), "gus@example.com", "pass123")

	claims, err := svc.Verify(issued.Token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "gus@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}
