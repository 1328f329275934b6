package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

// AccessLog emits a structured log line for every clinical API request,
// independent of the durable audit trail the handlers write. The two are
// deliberately decoupled: the log line survives even when the audit insert
// fails.
func AccessLog(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			ctx := req.Context()
			rid, _ := c.Get("request_id").(string)
			logger.Info().
				Str("type", "phi_access").
				Str("request_id", rid).
				Str("user_id", auth.UserIDFromContext(ctx)).
				Str("role", auth.RoleFromContext(ctx)).
				Str("action", methodToAction(req.Method)).
				Str("resource", resourceFromPath(path)).
				Str("method", req.Method).
				Str("path", path).
				Str("remote_ip", c.RealIP()).
				Int("status", c.Response().Status).
				Msg("phi_access")

			return err
		}
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// resourceFromPath extracts the first path segment under /api/v1/.
func resourceFromPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/api/v1/"), "/")
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "unknown"
}
