package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	ContextTenantID = "tenant_id"
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"

	RoleOwner  = "owner"
	RoleMember = "member"
)

// header-based tenant auth for now
// later we can swap this for jwt or session auth; handlers only read the
// context keys above
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := c.Request().Header.Get("X-Tenant-ID")
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing X-Tenant-ID header")
			}

			role := c.Request().Header.Get("X-User-Role")
			if role == "" {
				role = RoleMember
			}

			c.Set(ContextTenantID, tenantID)
			c.Set(ContextUserID, c.Request().Header.Get("X-User-ID"))
			c.Set(ContextUserRole, role)
			return next(c)
		}
	}
}
