package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/linerunner/internal/domain/entities"
)

// RequireRole middleware: only allow users holding one of roles. Must run after EchoAuth.
func RequireRole(roles ...entities.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*entities.User)
			if !ok || user == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error":   "unauthorized",
					"message": "user not authenticated",
				})
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"error":   "insufficient_role",
				"message": "user role not allowed for this action",
			})
		}
	}
}

// RequireAdmin middleware: only allow admins
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(entities.RoleAdmin)
}
