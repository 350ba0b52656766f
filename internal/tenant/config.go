package tenant

import (
	"encoding/json"
	"time"
)

// SubscriptionTier identifies a workspace's plan.
type SubscriptionTier string

// Subscription tiers.
const (
	TierFree         SubscriptionTier = "FREE"
	TierBasic        SubscriptionTier = "BASIC"
	TierProfessional SubscriptionTier = "PROFESSIONAL"
	TierEnterprise   SubscriptionTier = "ENTERPRISE"
)

// Defaults applied when a workspace has no stored settings. A workspace row
// with an empty settings blob behaves as a valid FREE tenant.
const (
	DefaultMaxUsers          = 5
	DefaultMaxOrdersPerMonth = 50
	DefaultStorageQuotaGB    = 5
)

// Branding holds tenant-specific presentation settings.
type Branding struct {
	LogoURL        string `json:"logo_url,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
}

// Billing holds pointers into the billing system.
type Billing struct {
	PlanID          string     `json:"plan_id,omitempty"`
	BillingEmail    string     `json:"billing_email,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
}

// Config is the full tenant configuration: workspace identity plus the
// settings blob contents.
type Config struct {
	WorkspaceID       string           `json:"workspace_id"`
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

// ConfigUpdate is a partial configuration update. Nil fields keep the
// current value; Branding and Billing are merged key-by-key rather than
// replaced wholesale.
type ConfigUpdate struct {
	Name              *string           `json:"name,omitempty"`
	SubscriptionTier  *SubscriptionTier `json:"subscription_tier,omitempty"`
	MaxUsers          *int              `json:"max_users,omitempty"`
	MaxOrdersPerMonth *int              `json:"max_orders_per_month,omitempty"`
	FeaturesEnabled   []string          `json:"features_enabled,omitempty"`
	StorageQuotaGB    *float64          `json:"storage_quota_gb,omitempty"`
	CustomDomain      *string           `json:"custom_domain,omitempty"`
	Branding          *Branding         `json:"branding,omitempty"`
	Billing           *Billing          `json:"billing,omitempty"`
}

// settings is the persisted shape of the workspace settings blob.
type settings struct {
	SubscriptionTier  SubscriptionTier `json:"subscription_tier,omitempty"`
	MaxUsers          int              `json:"max_users,omitempty"`
	MaxOrdersPerMonth int              `json:"max_orders_per_month,omitempty"`
	FeaturesEnabled   []string         `json:"features_enabled,omitempty"`
	StorageQuotaGB    float64          `json:"storage_quota_gb,omitempty"`
	CustomDomain      string           `json:"custom_domain,omitempty"`
	Branding          *Branding        `json:"branding,omitempty"`
	Billing           *Billing         `json:"billing,omitempty"`
}

// parseSettings deserializes a settings blob, applying the hard defaults for
// every absent field.
func parseSettings(blob string) (settings, error) {
	var s settings
	if blob != "" {
		if err := json.Unmarshal([]byte(blob), &s); err != nil {
			return settings{}, err
		}
	}
	if s.SubscriptionTier == "" {
		s.SubscriptionTier = TierFree
	}
	if s.MaxUsers == 0 {
		s.MaxUsers = DefaultMaxUsers
	}
	if s.MaxOrdersPerMonth == 0 {
		s.MaxOrdersPerMonth = DefaultMaxOrdersPerMonth
	}
	if s.StorageQuotaGB == 0 {
		s.StorageQuotaGB = DefaultStorageQuotaGB
	}
	if s.FeaturesEnabled == nil {
		s.FeaturesEnabled = []string{}
	}
	return s, nil
}

func (s settings) marshal() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// mergeBranding overlays non-empty fields of upd onto cur.
func mergeBranding(cur, upd *Branding) *Branding {
	if upd == nil {
		return cur
	}
	out := Branding{}
	if cur != nil {
		out = *cur
	}
	if upd.LogoURL != "" {
		out.LogoURL = upd.LogoURL
	}
	if upd.PrimaryColor != "" {
		out.PrimaryColor = upd.PrimaryColor
	}
	if upd.SecondaryColor != "" {
		out.SecondaryColor = upd.SecondaryColor
	}
	if upd.CompanyName != "" {
		out.CompanyName = upd.CompanyName
	}
	return &out
}

// mergeBilling overlays non-empty fields of upd onto cur.
func mergeBilling(cur, upd *Billing) *Billing {
	if upd == nil {
		return cur
	}
	out := Billing{}
	if cur != nil {
		out = *cur
	}
	if upd.PlanID != "" {
		out.PlanID = upd.PlanID
	}
	if upd.BillingEmail != "" {
		out.BillingEmail = upd.BillingEmail
	}
	if upd.PaymentMethod != "" {
		out.PaymentMethod = upd.PaymentMethod
	}
	if upd.NextBillingDate != nil {
		out.NextBillingDate = upd.NextBillingDate
	}
	return &out
}
