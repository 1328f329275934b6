package auth

import (
	"context"

	"github.com/labstack/echo/v4"
)

// RoleResolver maps an authenticated user id to a portal role. Implementations
// return client when no user record exists; they never fail for "no session".
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) string
}

// ResolveRoleMiddleware runs after JWTMiddleware and replaces the token role
// with the role stored on the user record, so that external identity providers
// need not embed portal roles in their tokens.
func ResolveRoleMiddleware(resolver RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			uid := UserIDFromContext(ctx)
			if uid == "" {
				return next(c)
			}
			role := resolver.ResolveRole(ctx, uid)
			ctx = context.WithValue(ctx, UserRoleKey, role)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
