package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/tenant"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/logger"
	"github.com/AshAI-Sys/ashley-ai-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WorkspaceHandler serves the workspace administration endpoints:
// provisioning, configuration, limits, stats, lifecycle.
type WorkspaceHandler struct {
	manager *tenant.Manager
}

// NewWorkspaceHandler creates a workspace handler.
func NewWorkspaceHandler(manager *tenant.Manager) *WorkspaceHandler {
	return &WorkspaceHandler{manager: manager}
}

// Create handles workspace provisioning
func (h *WorkspaceHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("create")

	var req tenant.CreateInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse workspace creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" || req.Slug == "" {
		log.Error("Invalid workspace data",
			zap.String("name", req.Name),
			zap.String("slug", req.Slug))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	result, err := h.manager.CreateTenant(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, tenant.ErrSlugTaken) {
			log.Warn("Workspace slug already taken", zap.String("slug", req.Slug))
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to create workspace", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "workspace creation failed"})
	}

	log.Info("Workspace created",
		zap.String("workspace_id", result.WorkspaceID),
		zap.String("slug", req.Slug))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Workspace created successfully",
		"workspace": result,
	})
}

// GetConfig returns a workspace's configuration
func (h *WorkspaceHandler) GetConfig(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("access")

	defer prometheus.TrackDBOperation("query")(time.Now())

	config, err := h.manager.GetTenantConfig(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to load workspace config", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load configuration"})
	}

	return c.JSON(http.StatusOK, config)
}

// UpdateConfig applies a partial configuration update
func (h *WorkspaceHandler) UpdateConfig(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("update")

	var req tenant.ConfigUpdate
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse config update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	if err := h.manager.UpdateTenantConfig(c.Request().Context(), c.Param("id"), req); err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to update workspace config", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "configuration update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Configuration updated successfully"})
}

// GetLimits returns the workspace's current usage against its quotas
func (h *WorkspaceHandler) GetLimits(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	limits, err := h.manager.CheckLimits(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to check workspace limits", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check limits"})
	}

	return c.JSON(http.StatusOK, limits)
}

// GetStats returns workspace activity statistics
func (h *WorkspaceHandler) GetStats(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	stats, err := h.manager.GetTenantStats(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to load workspace stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load statistics"})
	}

	return c.JSON(http.StatusOK, stats)
}

// CheckFeature reports whether a feature flag is enabled for the workspace
func (h *WorkspaceHandler) CheckFeature(c echo.Context) error {
	log := logger.FromEcho(c)

	enabled, err := h.manager.IsFeatureEnabled(c.Request().Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		log.Error("Feature check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "feature check failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"feature": c.Param("name"),
		"enabled": enabled,
	})
}

// Suspend deactivates a workspace
func (h *WorkspaceHandler) Suspend(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("suspend")

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.manager.SuspendTenant(c.Request().Context(), c.Param("id"), req.Reason); err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to suspend workspace", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "suspension failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Workspace suspended"})
}

// Activate reactivates a suspended workspace
func (h *WorkspaceHandler) Activate(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("activate")

	if err := h.manager.ActivateTenant(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		log.Error("Failed to activate workspace", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activation failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Workspace activated"})
}

// Delete suspends a workspace behind the typed confirmation gate: the
// request must carry the workspace's own slug as confirmation.
func (h *WorkspaceHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("delete")

	var req struct {
		Confirmation string `json:"confirmation"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	err := h.manager.DeleteTenant(c.Request().Context(), c.Param("id"), req.Confirmation)
	if err != nil {
		if errors.Is(err, tenant.ErrWorkspaceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workspace not found"})
		}
		if errors.Is(err, tenant.ErrConfirmationMismatch) {
			log.Warn("Workspace deletion confirmation mismatch", zap.String("workspace_id", c.Param("id")))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		log.Error("Failed to delete workspace", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deletion failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Workspace deleted"})
}
