package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/creativehub/services-hub/internal/api/handler"
	"github.com/creativehub/services-hub/internal/core/domain"
)

const internalError = "Internal server error."

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders every failure as a handler.Envelope with success=false.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, violations := resolveError(err, log, c)
		body := handler.Envelope{Success: false, Errors: violations}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, []handler.FieldViolation) {
	single := func(msg string) []handler.FieldViolation {
		return []handler.FieldViolation{{Message: msg}}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Violations
	}

	// Echo's own errors (bind failures, 404 from router, body limit, rate limit, auth).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
			return he.Code, single(internalError)
		}
		return he.Code, single(fmt.Sprintf("%v", he.Message))
	}

	switch {
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, single("Post not found")
	case errors.Is(err, domain.ErrInvalidPostID):
		return http.StatusBadRequest, single("Invalid post id")
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, single("User already exists")
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, single("Invalid credentials")
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, single(internalError)
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
