package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/model"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/store"
	"github.com/AshAI-Sys/ashley-ai-sub006/internal/tenant"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/logger"
	"github.com/AshAI-Sys/ashley-ai-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler serves workspace user endpoints through the scoped client.
type UserHandler struct {
	guard *tenant.Guard
	data  store.Client
}

// NewUserHandler creates a user handler on the unscoped data client.
func NewUserHandler(guard *tenant.Guard, data store.Client) *UserHandler {
	return &UserHandler{guard: guard, data: data}
}

func (h *UserHandler) scoped(tc *tenant.Context) *store.ScopedClient {
	return store.NewScopedClient(h.data, tc.WorkspaceID)
}

// Create invites a user into the workspace, refusing when the user quota is
// exhausted. The quota check runs before any row is written.
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	tc := tenant.FromEcho(c)
	if tc == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
		Role      string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	if req.Role == "" {
		req.Role = "MEMBER"
	}

	if err := h.guard.CheckOperation(ctx, tc.WorkspaceID, tenant.OpCreateUser, 0); err != nil {
		var limitErr *tenant.LimitError
		if errors.As(err, &limitErr) {
			log.Warn("User creation refused by quota",
				zap.String("workspace_id", tc.WorkspaceID),
				zap.String("limit", string(limitErr.Kind)))
			prometheus.RecordQuotaDenied(string(limitErr.Kind))
			return c.JSON(http.StatusForbidden, echo.Map{"error": limitErr.Error()})
		}
		log.Error("User quota check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quota check failed"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	now := time.Now()
	err = h.scoped(tc).Create(ctx, "users", store.Record{
		"id":            model.NewID(model.UserPrefix),
		"email":         req.Email,
		"password_hash": string(hash),
		"first_name":    req.FirstName,
		"last_name":     req.LastName,
		"role":          req.Role,
		"is_active":     true,
		"created_at":    now,
		"updated_at":    now,
	})
	if err != nil {
		log.Error("Failed to create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user creation failed"})
	}

	log.Info("User created",
		zap.String("email", req.Email),
		zap.String("workspace_id", tc.WorkspaceID))

	return c.JSON(http.StatusCreated, echo.Map{"message": "User created successfully"})
}

// List returns the workspace's users
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	tc := tenant.FromEcho(c)
	if tc == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var users []model.User
	if err := h.scoped(tc).FindMany(c.Request().Context(), "users", nil, &users); err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve users"})
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// CheckUpload validates an upload against the storage quota before the
// upload itself happens elsewhere.
func (h *UserHandler) CheckUpload(c echo.Context) error {
	log := logger.FromEcho(c)

	tc := tenant.FromEcho(c)
	if tc == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		SizeGB float64 `json:"size_gb"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	err := h.guard.CheckOperation(c.Request().Context(), tc.WorkspaceID, tenant.OpUploadFile, req.SizeGB)
	if err != nil {
		var limitErr *tenant.LimitError
		if errors.As(err, &limitErr) {
			prometheus.RecordQuotaDenied(string(limitErr.Kind))
			return c.JSON(http.StatusForbidden, echo.Map{"error": limitErr.Error()})
		}
		log.Error("Upload quota check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quota check failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"allowed": true})
}
