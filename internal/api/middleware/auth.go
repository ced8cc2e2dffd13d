package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/token"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextKeyIdentity = "identity"
)

// Auth verifies the bearer token and injects the verified identity into
// the echo context. It also stores the raw bearer in the request context
// so outbound companion calls can forward the original caller's
// authority.
func Auth(verifier *token.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			ident, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyIdentity, ident)

			req := c.Request()
			c.SetRequest(req.WithContext(token.WithBearer(req.Context(), parts[1])))

			return next(c)
		}
	}
}
