package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/creativehub/services-hub/internal/api/handler"
	"github.com/creativehub/services-hub/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"post not found", fmt.Errorf("get: %w", domain.ErrPostNotFound), http.StatusNotFound, "Post not found"},
		{"user exists", domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"validation", &handler.ValidationError{Violations: []handler.FieldViolation{{Field: "name", Message: "name is required"}}}, http.StatusBadRequest, "name is required"},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			body := envelope(t, rec)
			if body["success"] != false {
				t.Fatalf("expected success=false: %v", body)
			}
			first := body["errors"].([]any)[0].(map[string]any)
			if first["message"] != tt.message {
				t.Fatalf("expected %q, got %v", tt.message, first["message"])
			}
		})
	}
}

func TestHTTPErrorHandler_DoesNotLeakCause(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/register", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("password_hash column missing"), c)

	if got := rec.Body.String(); got == "" || strings.Contains(got, "password_hash") {
		t.Fatalf("internal detail leaked: %s", got)
	}
}
