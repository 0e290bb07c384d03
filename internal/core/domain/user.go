package domain

import (
	"errors"
	"time"
)

// TokenTTL is the validity window of a login token.
const TokenTTL = 2 * time.Hour

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models a registered account. Rows are created on registration and
// only read afterwards.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenClaims is the identity carried by a login token.
type TokenClaims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
