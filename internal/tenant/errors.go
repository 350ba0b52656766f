package tenant

import (
	"errors"
	"fmt"
)

// Resolution and validation failures. The middleware maps these to HTTP
// responses; business handlers match them with errors.Is.
var (
	// ErrNoWorkspace means no identifier was found by any resolution
	// strategy.
	ErrNoWorkspace = errors.New("workspace not specified")

	// ErrWorkspaceNotFound means an identifier resolved to no workspace
	// record, by id or by slug.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrWorkspaceInactive means the workspace exists but is suspended.
	ErrWorkspaceInactive = errors.New("workspace is inactive")

	// ErrUserNotInWorkspace means the acting user does not belong to the
	// resolved workspace.
	ErrUserNotInWorkspace = errors.New("user does not belong to workspace")

	// ErrUserInactive means the acting user's account is deactivated.
	ErrUserInactive = errors.New("user account is inactive")

	// ErrSlugTaken means a workspace with the requested slug already exists.
	ErrSlugTaken = errors.New("workspace slug is already taken")

	// ErrConfirmationMismatch means the typed deletion confirmation did not
	// match the workspace slug.
	ErrConfirmationMismatch = errors.New("confirmation failed - slug does not match")
)

// LimitKind names a quota.
type LimitKind string

// Quota kinds.
const (
	LimitUsers   LimitKind = "users"
	LimitOrders  LimitKind = "orders"
	LimitStorage LimitKind = "storage"
)

// LimitError reports a refused operation, naming the specific limit and the
// current/max values. Retryable after quota is freed or the plan upgraded.
type LimitError struct {
	Kind    LimitKind
	Current float64
	Max     float64
}

func (e *LimitError) Error() string {
	switch e.Kind {
	case LimitUsers:
		return fmt.Sprintf("user limit reached (%.0f/%.0f)", e.Current, e.Max)
	case LimitOrders:
		return fmt.Sprintf("monthly order limit reached (%.0f/%.0f)", e.Current, e.Max)
	case LimitStorage:
		return fmt.Sprintf("storage quota exceeded (%.1fGB/%.1fGB used)", e.Current, e.Max)
	default:
		return fmt.Sprintf("limit %q reached (%.0f/%.0f)", e.Kind, e.Current, e.Max)
	}
}

// FeatureError reports a feature-gate refusal, naming the feature.
// Retryable after a plan or feature change.
type FeatureError struct {
	Feature string
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature '%s' is not enabled for this workspace", e.Feature)
}
