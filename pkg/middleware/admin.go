package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vroomprestige/vroom-api/pkg/constant"
	"github.com/vroomprestige/vroom-api/pkg/response"
)

// AdminOnly middleware checks if the session user has an admin role
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := GetSessionUser(c)
			if !ok {
				return response.Error(c, http.StatusUnauthorized, "unauthorized", "missing session user")
			}

			if user.Role != constant.RoleAdmin && user.Role != constant.RoleSuperAdmin {
				return response.Error(c, http.StatusForbidden, "forbidden", "admin access required")
			}

			return next(c)
		}
	}
}
