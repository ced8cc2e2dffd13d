package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcm-suite/hcm-system/internal/token"

	"github.com/hcm-suite/hcm-system/internal/core/domain"
)

// Authorization policy names shared across both services.
const (
	PolicyAuthenticatedUser = "RequireAuthenticatedUser"
	PolicyManagerOrAbove    = "RequireManagerOrAbove"
	PolicyHRAdmin           = "RequireHRAdmin"
)

// policyRoles maps each policy name to the set of roles it admits.
var policyRoles = map[string][]domain.Role{
	PolicyAuthenticatedUser: {domain.RoleHRAdmin, domain.RoleManager, domain.RoleEmployee},
	PolicyManagerOrAbove:    {domain.RoleHRAdmin, domain.RoleManager},
	PolicyHRAdmin:           {domain.RoleHRAdmin},
}

// RequirePolicy enforces a named authorization policy against the
// verified identity's role. Unknown policy names admit nobody. Must run
// after Auth.
func RequirePolicy(name string) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(policyRoles[name]))
	for _, r := range policyRoles[name] {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := c.Get(ContextKeyIdentity).(token.Identity)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if _, ok := allowed[ident.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
