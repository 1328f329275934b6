package user

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/audit"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/auth"
	"github.com/gabrielleeichler-cyber/Heal-Connect/internal/platform/session"
	"github.com/gabrielleeichler-cyber/Heal-Connect/pkg/pagination"
)

// tokenTTL bounds token lifetime independently of the idle timeout.
const tokenTTL = 12 * time.Hour

type Handler struct {
	svc        *Service
	auditor    *audit.Service
	attempts   audit.LoginAttemptRepository
	monitor    *session.Monitor
	signingKey []byte
}

func NewHandler(svc *Service, auditor *audit.Service, attempts audit.LoginAttemptRepository, monitor *session.Monitor, signingKey string) *Handler {
	return &Handler{
		svc:        svc,
		auditor:    auditor,
		attempts:   attempts,
		monitor:    monitor,
		signingKey: []byte(signingKey),
	}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)

	authed := api.Group("", auth.RequireAuthenticated())
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/me", h.Me)

	admin := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleOfficeAdmin))
	admin.GET("/users", h.List)
	admin.GET("/users/:id", h.Get)

	manage := api.Group("", auth.RequireAuthenticated(), auth.RequireRole(auth.RoleTherapist))
	manage.POST("/users", h.Create)
	manage.PUT("/users/:id", h.Update)
	manage.DELETE("/users/:id", h.Delete)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	info := audit.Capture(c)

	u, err := h.svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.recordAttempt(c, req.Email, nil, false, "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	sessionID := uuid.New().String()
	expiresAt := time.Now().UTC().Add(tokenTTL)
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: u.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.signingKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	h.recordAttempt(c, req.Email, &u.ID, true, "")
	info.SessionID = sessionID
	h.auditor.RecordAccess(ctx, u.ID, audit.ActionLogin, "session", nil, &u.ID, info)

	if _, err := h.monitor.Touch(ctx, sessionID, u.ID); err != nil {
		// Session tracking starts lazily on the first authenticated request
		// if this initial touch fails.
		c.Logger().Warn("failed to record initial session activity")
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt, User: u})
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	sessionID := auth.SessionIDFromContext(ctx)

	h.auditor.RecordAccess(ctx, actorID, audit.ActionLogout, "session", nil, &actorID, audit.Capture(c))
	if sessionID != "" {
		_ = h.monitor.Terminate(ctx, sessionID)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	u, err := h.svc.Get(ctx, actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, u)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h *Handler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	u := &User{Email: req.Email, Name: req.Name, Role: req.Role}
	if err := h.svc.Create(c.Request().Context(), u, req.Password); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	h.recordWrite(c, audit.ActionCreate, u.ID)
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	h.recordRead(c, audit.ActionView, &u.ID)
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.recordRead(c, audit.ActionViewAll, nil)
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Role != "" {
		existing.Role = req.Role
	}
	if err := h.svc.Update(c.Request().Context(), existing); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Password != "" {
		if err := h.svc.SetPassword(c.Request().Context(), id, req.Password); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	h.recordWrite(c, audit.ActionUpdate, id)
	return c.JSON(http.StatusOK, existing)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	h.recordWrite(c, audit.ActionDelete, id)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) recordAttempt(c echo.Context, email string, userID *uuid.UUID, success bool, reason string) {
	ctx := c.Request().Context()
	attempt := &audit.LoginAttempt{
		Email:         email,
		UserID:        userID,
		Success:       success,
		FailureReason: reason,
		IPAddress:     c.RealIP(),
	}
	if err := h.attempts.Record(ctx, attempt); err != nil {
		c.Logger().Warn("failed to record login attempt")
	}
	if !success {
		h.auditor.Record(ctx, &audit.Entry{
			Action:       audit.ActionFailedLogin,
			ResourceType: "session",
			IPAddress:    c.RealIP(),
			UserAgent:    c.Request().UserAgent(),
		})
	}
}

func (h *Handler) recordRead(c echo.Context, action string, target *uuid.UUID) {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return
	}
	h.auditor.RecordAccess(ctx, actorID, action, "user", target, target, audit.Capture(c))
}

func (h *Handler) recordWrite(c echo.Context, action string, id uuid.UUID) {
	ctx := c.Request().Context()
	actorID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return
	}
	h.auditor.RecordAccess(ctx, actorID, action, "user", &id, &id, audit.Capture(c))
}
