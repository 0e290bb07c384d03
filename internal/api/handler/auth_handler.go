package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/creativehub/services-hub/internal/core/domain"
	"github.com/creativehub/services-hub/internal/core/ports"
	"github.com/creativehub/services-hub/internal/pkg/email"
)

const (
	userRegistered     = "User registered successfully"
	userAlreadyExists  = "User already exists"
	invalidCredentials = "Invalid credentials"

	maxPasswordBytes = 72
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Email    string `json:"email" form:"email" validate:"emailshape"`
	Password string `json:"password" form:"password" validate:"min=6"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type meResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Email and password (at least 6 characters)"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, invalidPayload)
	}
	req.Email = email.Normalize(req.Email)
	if err := c.Validate(&req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return failFields(c, http.StatusBadRequest, ve.Violations)
		}
		return err
	}
	// bcrypt only hashes the first 72 bytes
	if len(req.Password) > maxPasswordBytes {
		return failFields(c, http.StatusBadRequest, []FieldViolation{{Field: "password", Message: "password must be at most 72 bytes"}})
	}

	_, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return Fail(c, http.StatusBadRequest, userAlreadyExists)
		}
		return err
	}

	return respondMessage(c, http.StatusCreated, userRegistered)
}

// Login authenticates a user and returns a token valid for two hours.
// Unknown emails and wrong passwords produce the same response.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope{data=domain.IssuedToken}
// @Failure      400   {object}  Envelope
// @Failure      500   {object}  Envelope
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, invalidPayload)
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return Fail(c, http.StatusBadRequest, invalidCredentials)
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return Fail(c, http.StatusBadRequest, invalidCredentials)
		}
		return err
	}

	return respondData(c, http.StatusOK, token)
}

// Me returns the identity carried by the bearer token.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=meResponse}
// @Failure      401  {object}  Envelope
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, meResponse{UserID: claims.UserID, Email: claims.Email})
}
