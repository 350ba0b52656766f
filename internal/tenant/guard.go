package tenant

import (
	"context"
	"fmt"
)

// Operation is a quota-sensitive operation kind checked before it executes.
type Operation string

// Quota-sensitive operations.
const (
	OpCreateUser  Operation = "CREATE_USER"
	OpCreateOrder Operation = "CREATE_ORDER"
	OpUploadFile  Operation = "UPLOAD_FILE"
)

// Guard exposes the pre-condition checks business handlers run before
// mutating: quota availability and feature gating. Failures come back as
// typed errors naming the specific constraint so callers can surface them.
type Guard struct {
	manager *Manager
}

// NewGuard creates a guard over the given manager.
func NewGuard(manager *Manager) *Guard {
	return &Guard{manager: manager}
}

// CheckOperation refuses a quota-sensitive operation when the workspace has
// no headroom. sizeGB only applies to UPLOAD_FILE. Returns a *LimitError on
// refusal, nil when the operation may proceed.
func (g *Guard) CheckOperation(ctx context.Context, workspaceID string, op Operation, sizeGB float64) error {
	limits, err := g.manager.CheckLimits(ctx, workspaceID)
	if err != nil {
		return err
	}

	switch op {
	case OpCreateUser:
		if limits.Users.Available <= 0 {
			return &LimitError{Kind: LimitUsers, Current: float64(limits.Users.Current), Max: float64(limits.Users.Max)}
		}
	case OpCreateOrder:
		if limits.Orders.Available <= 0 {
			return &LimitError{Kind: LimitOrders, Current: float64(limits.Orders.Current), Max: float64(limits.Orders.Max)}
		}
	case OpUploadFile:
		if sizeGB > 0 && limits.Storage.AvailableGB < sizeGB {
			return &LimitError{Kind: LimitStorage, Current: limits.Storage.UsedGB, Max: limits.Storage.MaxGB}
		}
	default:
		return fmt.Errorf("unknown operation %q", op)
	}
	return nil
}

// RequireFeature refuses when the named feature flag is not enabled for the
// workspace. Returns a *FeatureError on refusal.
func (g *Guard) RequireFeature(ctx context.Context, workspaceID, feature string) error {
	enabled, err := g.manager.IsFeatureEnabled(ctx, workspaceID, feature)
	if err != nil {
		return err
	}
	if !enabled {
		return &FeatureError{Feature: feature}
	}
	return nil
}
