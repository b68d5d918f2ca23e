package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Role is the coarse access level carried in token claims. It is a closed
// set: guards are parametrized over Role values, never free-form strings.
type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleNurse   Role = "NURSE"
	RoleDoctor  Role = "DOCTOR"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleNurse, RoleDoctor, RoleManager, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

func roleList(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// RequireRole returns middleware that rejects any identity whose role is not
// in the allow-list. It is pure and synchronous: no I/O, fail-closed.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFromContext(c.Request().Context())
			if !ok || id.Role == "" {
				return echo.NewHTTPError(http.StatusForbidden, "user information or role not found")
			}

			for _, allowed := range roles {
				if id.Role == allowed {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf(
				"user does not have permission. Required roles: %s. Your role: %s",
				roleList(roles), id.Role))
		}
	}
}
