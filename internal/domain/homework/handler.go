package homework

import (
	"net/http"
	"time"

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
	g.GET("/homework", h.List)
	g.GET("/homework/:id", h.Get)
	g.PATCH("/homework/:id/status", h.UpdateStatus)

	manage := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleOfficeAdmin))
	manage.POST("/homework", h.Create)
	manage.PUT("/homework/:id", h.Update)
	manage.DELETE("/homework/:id", h.Delete)
}

func actorFrom(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, auth.RoleFromContext(ctx), nil
}

type assignmentRequest struct {
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *Handler) Create(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a := &Assignment{UserID: req.UserID, Title: req.Title, Description: req.Description, Status: req.Status, DueDate: req.DueDate}
	if err := h.svc.Create(c.Request().Context(), a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionCreate, "homework", &a.ID, &a.UserID, audit.Capture(c))
	return c.JSON(http.StatusCreated, a)
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
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadHomework(role, actorID, a.UserID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if actorID != a.UserID {
		h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionView, "homework", &a.ID, &a.UserID, audit.Capture(c))
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	subjectID := actorID
	if v := c.QueryParam("user_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id")
		}
		subjectID = parsed
	}
	if d := policy.CanReadHomework(role, actorID, subjectID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	items, total, err := h.svc.ListByUser(ctx, subjectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if actorID != subjectID {
		h.auditor.RecordAccess(ctx, actorID, audit.ActionViewAll, "homework", nil, &subjectID, audit.Capture(c))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanUpdateHomeworkStatus(role, actorID, a.UserID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "homework", &updated.ID, &updated.UserID, audit.Capture(c))
	return c.JSON(http.StatusOK, updated)
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
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var req assignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.Title = req.Title
	a.Description = req.Description
	if req.Status != "" {
		a.Status = req.Status
	}
	a.DueDate = req.DueDate
	if err := h.svc.Update(ctx, a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "homework", &a.ID, &a.UserID, audit.Capture(c))
	return c.JSON(http.StatusOK, a)
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
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "homework", &id, &a.UserID, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}
