package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/session"
)

// SessionActivity enforces the idle timeout on every authenticated request.
// Fresh and active sessions have their last-activity timestamp advanced and
// proceed; an expired session produces one session_timeout audit entry, is
// terminated server-side, and the request is rejected with a message the
// client can distinguish from a generic auth failure.
func SessionActivity(monitor *session.Monitor, auditor *audit.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			uid := auth.UserIDFromContext(ctx)
			sid := auth.SessionIDFromContext(ctx)
			if uid == "" || sid == "" {
				// Unauthenticated requests carry no session to track.
				return next(c)
			}
			userID, err := uuid.Parse(uid)
			if err != nil {
				return next(c)
			}

			state, err := monitor.Touch(ctx, sid, userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if state == session.StateExpired {
				auditor.RecordAccess(ctx, userID, audit.ActionSessionTimeout, "session", nil, nil, audit.Capture(c))
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			return next(c)
		}
	}
}
