package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultAdminPassword is the placeholder password assigned to the admin
// user created at provisioning. The user row carries MustChangePassword so
// the auth service can force rotation on first login.
const defaultAdminPassword = "ChangeMe123!"

// defaultDefectCodes is the quality-control catalog seeded into every new
// workspace.
var defaultDefectCodes = []model.DefectCode{
	{Code: "STAIN", Description: "Fabric staining", Severity: "MAJOR", Category: "FABRIC"},
	{Code: "HOLE", Description: "Hole or tear", Severity: "CRITICAL", Category: "FABRIC"},
	{Code: "SKIP_STITCH", Description: "Skipped stitches", Severity: "MAJOR", Category: "SEWING"},
	{Code: "LOOSE_THREAD", Description: "Loose threads", Severity: "MINOR", Category: "SEWING"},
	{Code: "PRINT_MISALIGN", Description: "Print misalignment", Severity: "CRITICAL", Category: "PRINT"},
}

// Manager owns workspace provisioning, configuration, validation, quota and
// feature checks. It is constructed once at the composition root and injected
// into middleware and handlers; it keeps no state beyond its handles.
type Manager struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewManager creates a tenant manager on the given database handle.
func NewManager(db *gorm.DB, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{db: db, log: log}
}

// CreateInput holds the configuration for a new workspace.
type CreateInput struct {
	Name              string           `json:"name"`
	Slug              string           `json:"slug"`
	SubscriptionTier  SubscriptionTier `json:"subscription_tier"`
	MaxUsers          int              `json:"max_users"`
	MaxOrdersPerMonth int              `json:"max_orders_per_month"`
	FeaturesEnabled   []string         `json:"features_enabled"`
	StorageQuotaGB    float64          `json:"storage_quota_gb"`
	CustomDomain      string           `json:"custom_domain,omitempty"`
	Branding          *Branding        `json:"branding,omitempty"`
	Billing           *Billing         `json:"billing,omitempty"`
}

// CreateResult reports a successful provisioning.
type CreateResult struct {
	WorkspaceID string `json:"workspace_id"`
	Success     bool   `json:"success"`
}

// CreateTenant provisions a new workspace: the workspace row with its
// settings blob, one default ADMIN user flagged for password rotation, and
// the default defect-code catalog, all in one transaction.
//
// The slug pre-check gives a friendly error in the common case; the unique
// index on slug is what actually closes the race between concurrent creates.
func (m *Manager) CreateTenant(ctx context.Context, input CreateInput) (*CreateResult, error) {
	var existing model.Workspace
	err := m.db.WithContext(ctx).Where("slug = ?", input.Slug).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, input.Slug)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("slug lookup failed: %w", err)
	}

	blob, err := settings{
		SubscriptionTier:  input.SubscriptionTier,
		MaxUsers:          input.MaxUsers,
		MaxOrdersPerMonth: input.MaxOrdersPerMonth,
		FeaturesEnabled:   input.FeaturesEnabled,
		StorageQuotaGB:    input.StorageQuotaGB,
		CustomDomain:      input.CustomDomain,
		Branding:          input.Branding,
		Billing:           input.Billing,
	}.marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize settings: %w", err)
	}

	workspace := model.Workspace{
		Name:     input.Name,
		Slug:     input.Slug,
		IsActive: true,
		Settings: blob,
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workspace).Error; err != nil {
			return fmt.Errorf("workspace insert failed: %w", err)
		}
		if err := m.createDefaultAdmin(tx, workspace.ID, input.Name); err != nil {
			return err
		}
		return m.initializeDefaults(tx, workspace.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	m.log.Info("Workspace provisioned",
		zap.String("workspace_id", workspace.ID),
		zap.String("slug", workspace.Slug))

	return &CreateResult{WorkspaceID: workspace.ID, Success: true}, nil
}

// createDefaultAdmin creates the workspace's initial ADMIN user with the
// placeholder password. MustChangePassword marks the required rotation.
func (m *Manager) createDefaultAdmin(tx *gorm.DB, workspaceID, workspaceName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	admin := model.User{
		WorkspaceID:        workspaceID,
		Email:              "admin@" + strings.ReplaceAll(strings.ToLower(workspaceName), " ", "") + ".com",
		FirstName:          "Admin",
		LastName:           "User",
		PasswordHash:       string(hash),
		Role:               "ADMIN",
		IsActive:           true,
		MustChangePassword: true,
	}

	if err := tx.Create(&admin).Error; err != nil {
		return fmt.Errorf("default admin insert failed: %w", err)
	}
	return nil
}

// initializeDefaults seeds the default defect-code catalog for a workspace.
func (m *Manager) initializeDefaults(tx *gorm.DB, workspaceID string) error {
	for _, defect := range defaultDefectCodes {
		row := defect
		row.WorkspaceID = workspaceID
		row.Name = defect.Description
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("defect code seed failed: %w", err)
		}
	}
	return nil
}

// GetTenantConfig loads a workspace's configuration, applying hard defaults
// for every absent settings field.
func (m *Manager) GetTenantConfig(ctx context.Context, workspaceID string) (*Config, error) {
	var workspace model.Workspace
	err := m.db.WithContext(ctx).Where("id = ?", workspaceID).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspace lookup failed: %w", err)
	}

	s, err := parseSettings(workspace.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workspace settings: %w", err)
	}

	return &Config{
		WorkspaceID:       workspace.ID,
		Name:              workspace.Name,
		Slug:              workspace.Slug,
		SubscriptionTier:  s.SubscriptionTier,
		MaxUsers:          s.MaxUsers,
		MaxOrdersPerMonth: s.MaxOrdersPerMonth,
		FeaturesEnabled:   s.FeaturesEnabled,
		StorageQuotaGB:    s.StorageQuotaGB,
		CustomDomain:      s.CustomDomain,
		Branding:          s.Branding,
		Billing:           s.Billing,
	}, nil
}

// UpdateTenantConfig applies a partial configuration update with
// read-merge-write semantics: nil fields keep the current value, branding and
// billing merge key-by-key. Concurrent updates are last-writer-wins; the
// write frequency here is admin edits, not hot-path counters.
func (m *Manager) UpdateTenantConfig(ctx context.Context, workspaceID string, updates ConfigUpdate) error {
	current, err := m.GetTenantConfig(ctx, workspaceID)
	if err != nil {
		return err
	}

	merged := settings{
		SubscriptionTier:  current.SubscriptionTier,
		MaxUsers:          current.MaxUsers,
		MaxOrdersPerMonth: current.MaxOrdersPerMonth,
		FeaturesEnabled:   current.FeaturesEnabled,
		StorageQuotaGB:    current.StorageQuotaGB,
		CustomDomain:      current.CustomDomain,
		Branding:          mergeBranding(current.Branding, updates.Branding),
		Billing:           mergeBilling(current.Billing, updates.Billing),
	}
	if updates.SubscriptionTier != nil {
		merged.SubscriptionTier = *updates.SubscriptionTier
	}
	if updates.MaxUsers != nil {
		merged.MaxUsers = *updates.MaxUsers
	}
	if updates.MaxOrdersPerMonth != nil {
		merged.MaxOrdersPerMonth = *updates.MaxOrdersPerMonth
	}
	if updates.FeaturesEnabled != nil {
		merged.FeaturesEnabled = updates.FeaturesEnabled
	}
	if updates.StorageQuotaGB != nil {
		merged.StorageQuotaGB = *updates.StorageQuotaGB
	}
	if updates.CustomDomain != nil {
		merged.CustomDomain = *updates.CustomDomain
	}

	blob, err := merged.marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	values := map[string]interface{}{"settings": blob}
	if updates.Name != nil {
		values["name"] = *updates.Name
	}

	result := m.db.WithContext(ctx).Model(&model.Workspace{}).
		Where("id = ?", workspaceID).
		Updates(values)
	if result.Error != nil {
		return fmt.Errorf("workspace update failed: %w", result.Error)
	}

	m.log.Info("Workspace configuration updated", zap.String("workspace_id", workspaceID))
	return nil
}

// ResolveIdentifier turns a raw identifier from the request into a canonical
// workspace id. Identifiers shaped like generated ids are used verbatim;
// anything else is treated as a slug and looked up, first by id, then by
// slug. Returns ErrWorkspaceNotFound when neither lookup matches.
func (m *Manager) ResolveIdentifier(ctx context.Context, identifier string) (string, error) {
	if identifier == "" {
		return "", ErrNoWorkspace
	}
	if looksLikeID(identifier) {
		return identifier, nil
	}

	var workspace model.Workspace
	err := m.db.WithContext(ctx).Where("id = ?", identifier).First(&workspace).Error
	if err == nil {
		return workspace.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("workspace lookup failed: %w", err)
	}

	err = m.db.WithContext(ctx).Where("slug = ?", identifier).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrWorkspaceNotFound
		}
		return "", fmt.Errorf("workspace lookup failed: %w", err)
	}
	return workspace.ID, nil
}

// AccessResult is the outcome of a tenant access validation. On success the
// loaded workspace row is returned so the caller avoids a second fetch.
type AccessResult struct {
	Valid     bool
	Reason    string
	Workspace *model.Workspace
}

// ValidateAccess checks that the workspace exists and is active, and, when a
// user id is supplied, that the user belongs to the workspace and is active.
// Checks short-circuit in that order.
func (m *Manager) ValidateAccess(ctx context.Context, workspaceID, userID string) (*AccessResult, error) {
	var workspace model.Workspace
	err := m.db.WithContext(ctx).Where("id = ?", workspaceID).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &AccessResult{Valid: false, Reason: "Workspace not found"}, nil
		}
		return nil, fmt.Errorf("workspace lookup failed: %w", err)
	}

	if !workspace.IsActive {
		return &AccessResult{Valid: false, Reason: "Workspace is inactive"}, nil
	}

	if userID != "" {
		var user model.User
		err := m.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user lookup failed: %w", err)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) || user.WorkspaceID != workspaceID {
			return &AccessResult{Valid: false, Reason: "User does not belong to workspace"}, nil
		}
		if !user.IsActive {
			return &AccessResult{Valid: false, Reason: "User account is inactive"}, nil
		}
	}

	return &AccessResult{Valid: true, Workspace: &workspace}, nil
}

// LimitUsage reports a count quota. Available is floored at zero so a tenant
// over quota after a downgrade never sees a negative figure.
type LimitUsage struct {
	Current   int64 `json:"current"`
	Max       int64 `json:"max"`
	Available int64 `json:"available"`
}

// StorageUsage reports the storage quota in gigabytes.
type StorageUsage struct {
	UsedGB      float64 `json:"used_gb"`
	MaxGB       float64 `json:"max_gb"`
	AvailableGB float64 `json:"available_gb"`
}

// Limits is a point-in-time snapshot of a workspace's usage against its
// quotas. Recomputed from live counts on every call, never cached.
type Limits struct {
	Users   LimitUsage   `json:"users"`
	Orders  LimitUsage   `json:"orders"`
	Storage StorageUsage `json:"storage"`
}

// CheckLimits computes current usage against configured quotas. The order
// window is [first instant of the current month, now) in server-local time.
func (m *Manager) CheckLimits(ctx context.Context, workspaceID string) (*Limits, error) {
	config, err := m.GetTenantConfig(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var userCount int64
	err = m.db.WithContext(ctx).Model(&model.User{}).
		Where("workspace_id = ? AND is_active = ?", workspaceID, true).
		Count(&userCount).Error
	if err != nil {
		return nil, fmt.Errorf("user count failed: %w", err)
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var orderCount int64
	err = m.db.WithContext(ctx).Model(&model.Order{}).
		Where("workspace_id = ? AND created_at >= ?", workspaceID, startOfMonth).
		Count(&orderCount).Error
	if err != nil {
		return nil, fmt.Errorf("order count failed: %w", err)
	}

	storageUsed := m.storageUsedGB(workspaceID)

	return &Limits{
		Users: LimitUsage{
			Current:   userCount,
			Max:       int64(config.MaxUsers),
			Available: floorInt64(int64(config.MaxUsers) - userCount),
		},
		Orders: LimitUsage{
			Current:   orderCount,
			Max:       int64(config.MaxOrdersPerMonth),
			Available: floorInt64(int64(config.MaxOrdersPerMonth) - orderCount),
		},
		Storage: StorageUsage{
			UsedGB:      storageUsed,
			MaxGB:       config.StorageQuotaGB,
			AvailableGB: floorFloat(config.StorageQuotaGB - storageUsed),
		},
	}, nil
}

// storageUsedGB is a placeholder figure. A real implementation must sum the
// sizes of stored objects per workspace; swapping that in touches only this
// function.
func (m *Manager) storageUsedGB(workspaceID string) float64 {
	return 0.5
}

// IsFeatureEnabled reports whether a named feature flag is present in the
// workspace's plan. Tenant-level only: no hierarchy, wildcards, or per-user
// overrides. An unknown workspace simply has no features.
func (m *Manager) IsFeatureEnabled(ctx context.Context, workspaceID, feature string) (bool, error) {
	config, err := m.GetTenantConfig(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, ErrWorkspaceNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, f := range config.FeaturesEnabled {
		if f == feature {
			return true, nil
		}
	}
	return false, nil
}

// Stats is a summary of workspace activity.
type Stats struct {
	TotalUsers    int64     `json:"total_users"`
	ActiveUsers   int64     `json:"active_users"`
	TotalOrders   int64     `json:"total_orders"`
	ActiveOrders  int64     `json:"active_orders"`
	TotalClients  int64     `json:"total_clients"`
	StorageUsedGB float64   `json:"storage_used_gb"`
	CreatedAt     time.Time `json:"created_at"`
	DaysActive    int       `json:"days_active"`
}

// GetTenantStats computes activity counts for a workspace.
func (m *Manager) GetTenantStats(ctx context.Context, workspaceID string) (*Stats, error) {
	var workspace model.Workspace
	err := m.db.WithContext(ctx).Where("id = ?", workspaceID).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("workspace lookup failed: %w", err)
	}

	stats := &Stats{
		StorageUsedGB: m.storageUsedGB(workspaceID),
		CreatedAt:     workspace.CreatedAt,
		DaysActive:    int(time.Since(workspace.CreatedAt).Hours() / 24),
	}

	db := m.db.WithContext(ctx)
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, db.Model(&model.User{}).Where("workspace_id = ?", workspaceID)},
		{&stats.ActiveUsers, db.Model(&model.User{}).Where("workspace_id = ? AND is_active = ?", workspaceID, true)},
		{&stats.TotalOrders, db.Model(&model.Order{}).Where("workspace_id = ?", workspaceID)},
		{&stats.ActiveOrders, db.Model(&model.Order{}).Where("workspace_id = ? AND status = ?", workspaceID, model.OrderStatusInProduction)},
		{&stats.TotalClients, db.Model(&model.Client{}).Where("workspace_id = ?", workspaceID)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("stats count failed: %w", err)
		}
	}

	return stats, nil
}

// SuspendTenant soft-suspends a workspace. All access validation fails until
// it is reactivated.
func (m *Manager) SuspendTenant(ctx context.Context, workspaceID, reason string) error {
	if err := m.setActive(ctx, workspaceID, false); err != nil {
		return err
	}
	if reason == "" {
		reason = "Not specified"
	}
	m.log.Warn("Workspace suspended",
		zap.String("workspace_id", workspaceID),
		zap.String("reason", reason))
	return nil
}

// ActivateTenant reactivates a suspended workspace.
func (m *Manager) ActivateTenant(ctx context.Context, workspaceID string) error {
	if err := m.setActive(ctx, workspaceID, true); err != nil {
		return err
	}
	m.log.Info("Workspace activated", zap.String("workspace_id", workspaceID))
	return nil
}

func (m *Manager) setActive(ctx context.Context, workspaceID string, active bool) error {
	result := m.db.WithContext(ctx).Model(&model.Workspace{}).
		Where("id = ?", workspaceID).
		Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("workspace update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWorkspaceNotFound
	}
	return nil
}

// DeleteTenant suspends a workspace behind a typed confirmation gate: the
// confirmation must equal the workspace's slug exactly. Not a true delete;
// data stays in place for reactivation or archival.
func (m *Manager) DeleteTenant(ctx context.Context, workspaceID, confirmation string) error {
	var workspace model.Workspace
	err := m.db.WithContext(ctx).Where("id = ?", workspaceID).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("workspace lookup failed: %w", err)
	}

	if confirmation != workspace.Slug {
		return ErrConfirmationMismatch
	}

	return m.SuspendTenant(ctx, workspaceID, "DELETED BY USER")
}

func floorInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func floorFloat(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
