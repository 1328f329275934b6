package journal

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
	g.GET("/journals", h.List)
	g.GET("/journals/:id", h.Get)
	g.POST("/journals", h.Create)
	g.PUT("/journals/:id", h.Update)
	g.DELETE("/journals/:id", h.Delete)
}

func actorFrom(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, auth.RoleFromContext(ctx), nil
}

type entryRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsShared bool   `json:"is_shared"`
}

func (h *Handler) Create(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Journal entries are always created in the caller's own journal.
	e := &Entry{UserID: actorID, Title: req.Title, Content: req.Content, IsShared: req.IsShared}
	if err := h.svc.Create(c.Request().Context(), e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionCreate, "journal", &e.ID, &e.UserID, audit.Capture(c))
	return c.JSON(http.StatusCreated, e)
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
	e, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		// Missing and forbidden look identical to the caller.
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadJournal(role, actorID, e.UserID, e.IsShared); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if actorID != e.UserID {
		h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionView, "journal", &e.ID, &e.UserID, audit.Capture(c))
	}
	return c.JSON(http.StatusOK, e)
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

	if subjectID == actorID {
		items, total, err := h.svc.ListByUser(ctx, actorID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	if d := policy.CanListSharedJournals(role, actorID, subjectID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	items, total, err := h.svc.ListShared(ctx, subjectID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionViewAll, "journal", nil, &subjectID, audit.Capture(c))
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
	e, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanWriteJournal(actorID, e.UserID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.Title = req.Title
	e.Content = req.Content
	e.IsShared = req.IsShared
	if err := h.svc.Update(ctx, e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "journal", &e.ID, &e.UserID, audit.Capture(c))
	return c.JSON(http.StatusOK, e)
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
	e, err := h.svc.Get(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanWriteJournal(actorID, e.UserID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if err := h.svc.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "journal", &id, &e.UserID, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}
