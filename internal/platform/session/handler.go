package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
)

type Handler struct {
	monitor *Monitor
}

func NewHandler(monitor *Monitor) *Handler {
	return &Handler{monitor: monitor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/session/status", h.SessionStatus, auth.RequireAuthenticated())
}

// SessionStatus reports remaining minutes before idle expiry. The query
// counts as activity, extending the session.
func (h *Handler) SessionStatus(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	sessionID := auth.SessionIDFromContext(ctx)
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	status, err := h.monitor.Status(ctx, sessionID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !status.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	return c.JSON(http.StatusOK, status)
}
