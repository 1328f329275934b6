package treatment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/policy"
	"github.com/gabrielleeichler-cyber/Heal-Connect/pkg/pagination"
)

type Handler struct {
	svc     *Service
	chain   *policy.ChainResolver
	auditor *audit.Service
	logger  zerolog.Logger
}

func NewHandler(svc *Service, chain *policy.ChainResolver, auditor *audit.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, chain: chain, auditor: auditor, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireAuthenticated())
	g.GET("/treatment-plans/:id", h.GetPlan)
	g.GET("/treatment-plans/:id/goals", h.ListGoals)
	g.GET("/me/treatment-plan", h.GetOwnPlan)
	g.GET("/goals/:id", h.GetGoal)
	g.GET("/goals/:id/objectives", h.ListObjectives)
	g.GET("/objectives/:id", h.GetObjective)

	manage := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleTherapist))
	manage.GET("/treatment-plans", h.ListPlans)
	manage.POST("/treatment-plans", h.CreatePlan)
	manage.PUT("/treatment-plans/:id", h.UpdatePlan)
	manage.DELETE("/treatment-plans/:id", h.DeletePlan)
	manage.POST("/treatment-plans/:id/goals", h.CreateGoal)
	manage.PUT("/goals/:id", h.UpdateGoal)
	manage.DELETE("/goals/:id", h.DeleteGoal)
	manage.POST("/goals/:id/objectives", h.CreateObjective)
	manage.PUT("/objectives/:id", h.UpdateObjective)
	manage.DELETE("/objectives/:id", h.DeleteObjective)
	manage.POST("/objectives/:id/progress", h.RecordProgress)
	manage.GET("/objectives/:id/progress", h.ListProgress)
}

func actorFrom(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	id, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, auth.RoleFromContext(ctx), nil
}

// clientForGoal resolves the client whose plan owns the goal, for audit
// tagging.
func (h *Handler) clientForGoal(c echo.Context, goalID uuid.UUID) (uuid.UUID, error) {
	g, err := h.svc.GetGoal(c.Request().Context(), goalID)
	if err != nil {
		return uuid.Nil, err
	}
	p, err := h.svc.GetPlan(c.Request().Context(), g.PlanID)
	if err != nil {
		return uuid.Nil, err
	}
	return p.ClientID, nil
}

// targetForGoal is clientForGoal for audit tagging. Resolution can fail
// mid-request (plan deleted concurrently); the entry is then written without
// a target rather than dropped, and the failure is logged.
func (h *Handler) targetForGoal(c echo.Context, goalID uuid.UUID) *uuid.UUID {
	clientID, err := h.clientForGoal(c, goalID)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("goal_id", goalID.String()).
			Msg("audit target resolution failed")
		return nil
	}
	return &clientID
}

// targetForObjective walks one level further down the chain than
// targetForGoal.
func (h *Handler) targetForObjective(c echo.Context, objectiveID uuid.UUID) *uuid.UUID {
	o, err := h.svc.GetObjective(c.Request().Context(), objectiveID)
	if err != nil {
		h.logger.Warn().Err(err).
			Str("objective_id", objectiveID.String()).
			Msg("audit target resolution failed")
		return nil
	}
	return h.targetForGoal(c, o.GoalID)
}

func (h *Handler) audited(c echo.Context, actorID uuid.UUID, action, resourceType string, resourceID uuid.UUID, subjectID *uuid.UUID) {
	if subjectID != nil && actorID == *subjectID {
		return
	}
	rid := resourceID
	h.auditor.RecordAccess(c.Request().Context(), actorID, action, resourceType, &rid, subjectID, audit.Capture(c))
}

// -- Plans --

func (h *Handler) CreatePlan(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePlan(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionCreate, "treatment_plan", &p.ID, &p.ClientID, audit.Capture(c))
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPlan(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetPlan(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadPlan(role, actorID, p.ClientID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	h.audited(c, actorID, audit.ActionView, "treatment_plan", p.ID, &p.ClientID)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetOwnPlan(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPlanByClient(c.Request().Context(), actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "no treatment plan")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPlans(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPlans(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(c.Request().Context(), actorID, audit.ActionViewAll, "treatment_plan", nil, nil, audit.Capture(c))
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdatePlan(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	existing, err := h.svc.GetPlan(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var p Plan
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing.Title = p.Title
	existing.Summary = p.Summary
	if err := h.svc.UpdatePlan(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "treatment_plan", &existing.ID, &existing.ClientID, audit.Capture(c))
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) DeletePlan(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	existing, err := h.svc.GetPlan(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if err := h.svc.DeletePlan(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "treatment_plan", &id, &existing.ClientID, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}

// -- Goals --

func (h *Handler) CreateGoal(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var g Goal
	if err := c.Bind(&g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	g.PlanID = planID
	ctx := c.Request().Context()
	if err := h.svc.CreateGoal(ctx, &g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionCreate, "treatment_goal", &g.ID, h.targetForGoal(c, g.ID), audit.Capture(c))
	return c.JSON(http.StatusCreated, g)
}

func (h *Handler) GetGoal(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	d, err := h.chain.CanReadGoal(ctx, role, actorID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "authorization check failed")
	}
	if !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	g, err := h.svc.GetGoal(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	h.audited(c, actorID, audit.ActionView, "treatment_goal", g.ID, h.targetForGoal(c, g.ID))
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) ListGoals(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	p, err := h.svc.GetPlan(ctx, planID)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	if d := policy.CanReadPlan(role, actorID, p.ClientID); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	goals, err := h.svc.ListGoals(ctx, planID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.audited(c, actorID, audit.ActionViewAll, "treatment_goal", planID, &p.ClientID)
	return c.JSON(http.StatusOK, goals)
}

func (h *Handler) UpdateGoal(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	existing, err := h.svc.GetGoal(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var g Goal
	if err := c.Bind(&g); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing.Description = g.Description
	if g.Status != "" {
		existing.Status = g.Status
	}
	existing.SortOrder = g.SortOrder
	if err := h.svc.UpdateGoal(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "treatment_goal", &existing.ID, h.targetForGoal(c, existing.ID), audit.Capture(c))
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) DeleteGoal(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	target := h.targetForGoal(c, id)
	if err := h.svc.DeleteGoal(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "treatment_goal", &id, target, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}

// -- Objectives --

func (h *Handler) CreateObjective(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var o Objective
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.GoalID = goalID
	ctx := c.Request().Context()
	if err := h.svc.CreateObjective(ctx, &o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionCreate, "treatment_objective", &o.ID, h.targetForGoal(c, goalID), audit.Capture(c))
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetObjective(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	d, err := h.chain.CanReadObjective(ctx, role, actorID, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "authorization check failed")
	}
	if !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	o, err := h.svc.GetObjective(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	h.audited(c, actorID, audit.ActionView, "treatment_objective", o.ID, h.targetForGoal(c, o.GoalID))
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListObjectives(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	d, err := h.chain.CanReadGoal(ctx, role, actorID, goalID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "authorization check failed")
	}
	if !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	items, err := h.svc.ListObjectives(ctx, goalID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.audited(c, actorID, audit.ActionViewAll, "treatment_objective", goalID, h.targetForGoal(c, goalID))
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateObjective(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	existing, err := h.svc.GetObjective(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	var o Objective
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	existing.Description = o.Description
	if o.Status != "" {
		existing.Status = o.Status
	}
	existing.SortOrder = o.SortOrder
	if err := h.svc.UpdateObjective(ctx, existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionUpdate, "treatment_objective", &existing.ID, h.targetForGoal(c, existing.GoalID), audit.Capture(c))
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) DeleteObjective(c echo.Context) error {
	actorID, _, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	var target *uuid.UUID
	if o, err := h.svc.GetObjective(ctx, id); err == nil {
		target = h.targetForGoal(c, o.GoalID)
	} else {
		h.logger.Warn().Err(err).
			Str("objective_id", id.String()).
			Msg("audit target resolution failed")
	}
	if err := h.svc.DeleteObjective(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionDelete, "treatment_objective", &id, target, audit.Capture(c))
	return c.NoContent(http.StatusNoContent)
}

// -- Progress --

func (h *Handler) RecordProgress(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	if d := policy.CanReadProgress(role); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	objectiveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Progress
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ObjectiveID = objectiveID
	p.RecordedBy = actorID
	ctx := c.Request().Context()
	if err := h.svc.RecordProgress(ctx, &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.auditor.RecordAccess(ctx, actorID, audit.ActionCreate, "treatment_progress", &p.ID, h.targetForObjective(c, objectiveID), audit.Capture(c))
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProgress(c echo.Context) error {
	actorID, role, err := actorFrom(c)
	if err != nil {
		return err
	}
	if d := policy.CanReadProgress(role); !d.Allowed {
		return echo.NewHTTPError(http.StatusForbidden, "access denied")
	}
	objectiveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()
	items, total, err := h.svc.ListProgress(ctx, objectiveID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.audited(c, actorID, audit.ActionViewAll, "treatment_progress", objectiveID, h.targetForObjective(c, objectiveID))
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
