package tenant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettingsAppliesDefaults(t *testing.T) {
	for _, blob := range []string{"", "{}"} {
		s, err := parseSettings(blob)
		require.NoError(t, err)
		assert.Equal(t, TierFree, s.SubscriptionTier)
		assert.Equal(t, DefaultMaxUsers, s.MaxUsers)
		assert.Equal(t, DefaultMaxOrdersPerMonth, s.MaxOrdersPerMonth)
		assert.Equal(t, float64(DefaultStorageQuotaGB), s.StorageQuotaGB)
		assert.NotNil(t, s.FeaturesEnabled)
	}
}

func TestParseSettingsRoundTrip(t *testing.T) {
	in := settings{
		SubscriptionTier:  TierEnterprise,
		MaxUsers:          100,
		MaxOrdersPerMonth: 5000,
		FeaturesEnabled:   []string{"qc_inspections", "ai_forecasting"},
		StorageQuotaGB:    500,
		CustomDomain:      "orders.acme.com",
		Branding:          &Branding{CompanyName: "Acme"},
	}

	blob, err := in.marshal()
	require.NoError(t, err)

	out, err := parseSettings(blob)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParseSettingsRejectsGarbage(t *testing.T) {
	_, err := parseSettings("{not json")
	assert.Error(t, err)
}

func TestMergeBranding(t *testing.T) {
	cur := &Branding{LogoURL: "logo.png", PrimaryColor: "#000"}

	assert.Equal(t, cur, mergeBranding(cur, nil), "nil update keeps current")

	merged := mergeBranding(cur, &Branding{PrimaryColor: "#fff"})
	assert.Equal(t, "#fff", merged.PrimaryColor)
	assert.Equal(t, "logo.png", merged.LogoURL)
	assert.Equal(t, "#000", cur.PrimaryColor, "current must not be mutated")

	fromNothing := mergeBranding(nil, &Branding{CompanyName: "Acme"})
	require.NotNil(t, fromNothing)
	assert.Equal(t, "Acme", fromNothing.CompanyName)
}

func TestMergeBilling(t *testing.T) {
	next := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	cur := &Billing{PlanID: "plan_basic", BillingEmail: "ap@acme.test"}

	merged := mergeBilling(cur, &Billing{NextBillingDate: &next})
	assert.Equal(t, "plan_basic", merged.PlanID)
	assert.Equal(t, "ap@acme.test", merged.BillingEmail)
	require.NotNil(t, merged.NextBillingDate)
	assert.True(t, merged.NextBillingDate.Equal(next))
}
