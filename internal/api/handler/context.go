package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/api/middleware"
	"github.com/hcm-suite/hcm-system/internal/token"
)

// ctxIdentity extracts the verified identity injected by the Auth
// middleware. Presence proves the middleware ran; handlers behind Auth
// fast-fail with 401 rather than reaching a service with an empty
// identity.
func ctxIdentity(c echo.Context) (token.Identity, error) {
	ident, ok := c.Get(middleware.ContextKeyIdentity).(token.Identity)
	if !ok {
		return token.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ident, nil
}
