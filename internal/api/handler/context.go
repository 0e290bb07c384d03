package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creativehub/services-hub/internal/core/domain"
)

// claimsKey is where the Auth middleware stores the verified token claims.
const claimsKey = "claims"

// ctxClaims returns the claims injected by the Auth middleware. A missing
// value means the route was mounted without the middleware.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, _ := c.Get(claimsKey).(*domain.TokenClaims)
	if claims == nil || claims.UserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
