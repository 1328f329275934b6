package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Portal roles, ordered from most to least privileged.
const (
	RoleTherapist   = "therapist"
	RoleOfficeAdmin = "office_admin"
	RoleClient      = "client"
)

// RoleRank maps a role to its position in the hierarchy. Unknown roles rank
// below client so that a malformed token never gains access.
func RoleRank(role string) int {
	switch role {
	case RoleTherapist:
		return 3
	case RoleOfficeAdmin:
		return 2
	case RoleClient:
		return 1
	default:
		return 0
	}
}

// HasRolePermission reports whether actual satisfies the required role under
// the strict ordering therapist > office_admin > client.
func HasRolePermission(actual, required string) bool {
	return RoleRank(actual) >= RoleRank(required)
}

// IsTherapistRole reports whether the role is exactly therapist.
func IsTherapistRole(role string) bool {
	return role == RoleTherapist
}

// IsOfficeAdminRole reports whether the role carries office-admin capability,
// which therapists also hold.
func IsOfficeAdminRole(role string) bool {
	return HasRolePermission(role, RoleOfficeAdmin)
}

// RequireRole returns middleware that rejects requests whose authenticated
// role ranks below the required role.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if !HasRolePermission(role, required) {
				return echo.NewHTTPError(http.StatusForbidden, "access denied")
			}
			return next(c)
		}
	}
}

// RequireAuthenticated returns middleware that rejects requests with no
// authenticated principal. Read endpoints that degrade to minimal privilege
// skip this; write endpoints always use it.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserIDFromContext(c.Request().Context()) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
