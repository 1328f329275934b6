package audit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
	"github.com/gabrielleeichler-cyber/Heal-Connect/pkg/pagination"
)

type Handler struct {
	svc         *Service
	disclosures DisclosureRepository
}

func NewHandler(svc *Service, disclosures DisclosureRepository) *Handler {
	return &Handler{svc: svc, disclosures: disclosures}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	authed := api.Group("", auth.RequireAuthenticated())
	authed.GET("/audit-logs", h.ListAuditLogs)
	authed.GET("/me/access-history", h.MyAccessHistory)
	authed.GET("/me/disclosures", h.MyDisclosures)
	authed.POST("/disclosures", h.RecordDisclosure)
	authed.GET("/disclosures", h.ListDisclosures)
}

// ListAuditLogs serves the therapist-facing trail. Entries are system-
// generated only; there is no write surface here.
func (h *Handler) ListAuditLogs(c echo.Context) error {
	ctx := c.Request().Context()
	if d := policy.CanReadAuditLogs(auth.RoleFromContext(ctx)); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	params := map[string]string{}
	for _, key := range []string{"action", "resource_type", "actor_id", "target_user_id"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(ctx, params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// MyAccessHistory is the self-service transparency view: who accessed my data.
func (h *Handler) MyAccessHistory(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	pg := pagination.FromContext(c)
	records, total, err := h.svc.AccessHistory(ctx, actorID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecordDisclosure(c echo.Context) error {
	ctx := c.Request().Context()
	role := auth.RoleFromContext(ctx)
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if d := policy.CanRecordDisclosure(role); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	var disc Disclosure
	if err := c.Bind(&disc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	disc.DisclosedBy = actorID
	if err := h.disclosures.Record(ctx, &disc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.svc.RecordAccess(ctx, actorID, ActionCreate, "data_disclosure", &disc.ID, &disc.ClientID, Capture(c))
	return c.JSON(http.StatusCreated, disc)
}

func (h *Handler) ListDisclosures(c echo.Context) error {
	ctx := c.Request().Context()
	role := auth.RoleFromContext(ctx)
	if d := policy.CanRecordDisclosure(role); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}

	pg := pagination.FromContext(c)
	if cid := c.QueryParam("client_id"); cid != "" {
		clientID, err := uuid.Parse(cid)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		items, total, err := h.disclosures.ListByClient(ctx, clientID, pg.Limit, pg.Offset)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.disclosures.ListAll(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// MyDisclosures lets a client see the accounting of their own disclosures.
func (h *Handler) MyDisclosures(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	pg := pagination.FromContext(c)
	items, total, err := h.disclosures.ListByClient(ctx, actorID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
