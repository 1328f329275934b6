package reminder

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
	"github.com/gabrielleeichler-cyber/Heal-Connect/pkg/pagination"
)

type Handler struct {
	svc     *Service
	auditor *audit.Service
}

func NewHandler(svc *Service, auditor *audit.Service) *Handler {
	return &Handler{svc: svc, auditor: auditor}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireAuthenticated())
	g.GET("/reminders", h.List)
	g.GET("/reminders/:id", h.Get)

	manage := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleOfficeAdmin))
	manage.POST("/reminders", h.Create)
	manage.PUT("/reminders/:id", h.Update)
	manage.POST("/reminders/:id/sent", h.MarkSent)
	manage.DELETE("/reminders/:id", h.Delete)
}

func actorFrom(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, auth.RoleFromContext(ctx), nil
}

func (h *Handler) Create(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	var r Reminder
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionCreate, "reminder", &r.ID, &r.UserID, audit.Capture(c))
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Get(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadReminder(role, actorID, r.UserID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) List(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)

	subjectID := actorID
	if v := c.QueryParam("user_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		subjectID = parsed
	}
	if d := policy.CanReadReminder(role, actorID, subjectID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	items, total, err := h.svc.ListByUser(c.Request().Context(), subjectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	existing, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var r Reminder
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing.Message = r.Message
	if !r.RemindAt.IsZero() {
		existing.RemindAt = r.RemindAt
	}
	if err := h.svc.Update(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "reminder", &existing.ID, &existing.UserID, audit.Capture(c))
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) MarkSent(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	r, err := h.svc.MarkSent(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "reminder", &r.ID, &r.UserID, audit.Capture(c))
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Delete(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	r, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "reminder", &id, &r.UserID, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}
