package prompt

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
	g.GET("/prompts", h.List)
	g.GET("/prompts/:id", h.Get)

	manage := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleTherapist))
	manage.POST("/prompts", h.Create)
	manage.PUT("/prompts/:id", h.Update)
	manage.DELETE("/prompts/:id", h.Delete)
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
	var p Prompt
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionCreate, "prompt", &p.ID, p.ClientID, audit.Capture(c))
	return c.JSON(http.StatusCreated, p)
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
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadPrompt(role, actorID, p.ClientID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if p.ClientID != nil && *p.ClientID != actorID {
		h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionView, "prompt", &p.ID, p.ClientID, audit.Capture(c))
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) List(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if auth.IsTherapistRole(role) {
		items, total, err := h.svc.ListAll(ctx, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.ListVisible(ctx, actorID, pg.Limit, pg.Offset)
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
		return echo.NewHTTPError(http.StatusNotFound, "prompt not found")
	}
	var p Prompt
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing.ClientID = p.ClientID
	existing.Text = p.Text
	existing.Category = p.Category
	if err := h.svc.Update(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "prompt", &existing.ID, existing.ClientID, audit.Capture(c))
	return c.JSON(http.StatusOK, existing)
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
	existing, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "prompt not found")
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "prompt", &id, existing.ClientID, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}
