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
)

// OrderHandler serves order endpoints. Every data operation goes through a
// workspace-scoped client obtained from the request's tenant context; the
// handler never touches the unscoped store.
type OrderHandler struct {
	guard *tenant.Guard
	data  store.Client
}

// NewOrderHandler creates an order handler on the unscoped data client.
func NewOrderHandler(guard *tenant.Guard, data store.Client) *OrderHandler {
	return &OrderHandler{guard: guard, data: data}
}

func (h *OrderHandler) scoped(tc *tenant.Context) *store.ScopedClient {
	return store.NewScopedClient(h.data, tc.WorkspaceID)
}

// Create handles order creation, refusing when the monthly order quota is
// exhausted.
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	tc := tenant.FromEcho(c)
	if tc == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	var req struct {
		OrderNumber string `json:"order_number"`
		ClientID    string `json:"client_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse order creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.OrderNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order_number is required"})
	}

	// Quota check runs before anything is written.
	if err := h.guard.CheckOperation(ctx, tc.WorkspaceID, tenant.OpCreateOrder, 0); err != nil {
		var limitErr *tenant.LimitError
		if errors.As(err, &limitErr) {
			log.Warn("Order creation refused by quota",
				zap.String("workspace_id", tc.WorkspaceID),
				zap.String("limit", string(limitErr.Kind)))
			prometheus.RecordQuotaDenied(string(limitErr.Kind))
			return c.JSON(http.StatusForbidden, echo.Map{"error": limitErr.Error()})
		}
		log.Error("Order quota check failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quota check failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	now := time.Now()
	err := h.scoped(tc).Create(ctx, "orders", store.Record{
		"id":           model.NewID(model.OrderPrefix),
		"order_number": req.OrderNumber,
		"client_id":    req.ClientID,
		"status":       model.OrderStatusDraft,
		"created_at":   now,
		"updated_at":   now,
	})
	if err != nil {
		log.Error("Failed to create order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order creation failed"})
	}

	log.Info("Order created",
		zap.String("order_number", req.OrderNumber),
		zap.String("workspace_id", tc.WorkspaceID))

	return c.JSON(http.StatusCreated, echo.Map{"message": "Order created successfully"})
}

// List returns the workspace's orders, optionally filtered by status
func (h *OrderHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	tc := tenant.FromEcho(c)
	if tc == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant context required"})
	}

	var where store.Filter
	if status := c.QueryParam("status"); status != "" {
		where = store.Filter{"status": status}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var orders []model.Order
	if err := h.scoped(tc).FindMany(c.Request().Context(), "orders", where, &orders); err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve orders"})
	}

	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
