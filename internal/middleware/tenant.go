package middleware

import (
	"errors"
	"net/http"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/tenant"
	"github.com/AshAI-Sys/ashley-ai-sub006/pkg/logger"
	"github.com/AshAI-Sys/ashley-ai-sub006/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error codes returned by the tenant middleware.
const (
	CodeNoWorkspace       = "NO_WORKSPACE"
	CodeWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	CodeAccessDenied      = "ACCESS_DENIED"
	CodeValidationError   = "VALIDATION_ERROR"
)

// TenantMiddleware resolves and validates the workspace for every request
// passing through it: extract an identifier (header > subdomain > query >
// cookie), resolve slug to canonical id, validate workspace and acting-user
// access, then attach the tenant context. Any failure stops the request with
// a structured error; no tenant-scoped operation runs after a failure.
func TenantMiddleware(manager *tenant.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)
			ctx := c.Request().Context()

			identifier, source := tenant.ExtractIdentifier(c.Request())
			if identifier == "" {
				log.Warn("No workspace identifier in request")
				prometheus.RecordTenantError(CodeNoWorkspace)
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "Workspace not specified",
					"code":  CodeNoWorkspace,
				})
			}
			prometheus.RecordTenantResolution(source)

			workspaceID, err := manager.ResolveIdentifier(ctx, identifier)
			if err != nil {
				if errors.Is(err, tenant.ErrWorkspaceNotFound) {
					log.Warn("Workspace not found", zap.String("identifier", identifier))
					prometheus.RecordTenantError(CodeWorkspaceNotFound)
					return c.JSON(http.StatusNotFound, echo.Map{
						"error": "Workspace not found",
						"code":  CodeWorkspaceNotFound,
					})
				}
				log.Error("Workspace resolution failed", zap.Error(err))
				prometheus.RecordTenantError(CodeValidationError)
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error":   "Tenant validation failed",
					"details": err.Error(),
				})
			}

			var userID, userRole string
			if claims := UserClaims(c); claims != nil {
				userID = claims.UserID
				userRole = claims.Role
			}

			validation, err := manager.ValidateAccess(ctx, workspaceID, userID)
			if err != nil {
				log.Error("Tenant validation failed", zap.Error(err))
				prometheus.RecordTenantError(CodeValidationError)
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error":   "Tenant validation failed",
					"details": err.Error(),
				})
			}
			if !validation.Valid {
				log.Warn("Tenant access denied",
					zap.String("workspace_id", workspaceID),
					zap.String("user_id", userID),
					zap.String("reason", validation.Reason))
				prometheus.RecordTenantError(CodeAccessDenied)
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": validation.Reason,
					"code":  CodeAccessDenied,
				})
			}

			tenant.SetContext(c, &tenant.Context{
				WorkspaceID:   validation.Workspace.ID,
				WorkspaceSlug: validation.Workspace.Slug,
				UserID:        userID,
				UserRole:      userRole,
			})

			return next(c)
		}
	}
}

// RequireFeature gates a route group behind a feature flag. Runs after
// TenantMiddleware.
func RequireFeature(guard *tenant.Guard, feature string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tc := tenant.FromEcho(c)
			if tc == nil {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "Workspace not specified",
					"code":  CodeNoWorkspace,
				})
			}

			if err := guard.RequireFeature(c.Request().Context(), tc.WorkspaceID, feature); err != nil {
				var featureErr *tenant.FeatureError
				if errors.As(err, &featureErr) {
					prometheus.RecordFeatureDenied(featureErr.Feature)
					return c.JSON(http.StatusForbidden, echo.Map{"error": featureErr.Error()})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"error":   "Tenant validation failed",
					"details": err.Error(),
				})
			}

			return next(c)
		}
	}
}
