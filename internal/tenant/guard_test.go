package tenant

import (
	"context"
	"testing"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRefusesSixthUser(t *testing.T) {
	m, db := newTestManager(t)
	guard := NewGuard(m)
	ctx := context.Background()

	// max_users=5; provisioning already created the admin, fill the rest.
	id := createTestTenant(t, m, "acme", 5)
	for _, email := range []string{"u2@acme.test", "u3@acme.test", "u4@acme.test", "u5@acme.test"} {
		row := model.User{WorkspaceID: id, Email: email, IsActive: true}
		require.NoError(t, db.Create(&row).Error)
	}

	err := guard.CheckOperation(ctx, id, OpCreateUser, 0)
	require.Error(t, err)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, LimitUsers, limitErr.Kind)
	assert.Equal(t, float64(5), limitErr.Current)
	assert.Equal(t, float64(5), limitErr.Max)
	assert.Contains(t, err.Error(), "user limit reached (5/5)")
}

func TestGuardAllowsOperationsWithHeadroom(t *testing.T) {
	m, _ := newTestManager(t)
	guard := NewGuard(m)
	ctx := context.Background()

	id := createTestTenant(t, m, "acme", 5)

	assert.NoError(t, guard.CheckOperation(ctx, id, OpCreateUser, 0))
	assert.NoError(t, guard.CheckOperation(ctx, id, OpCreateOrder, 0))
	assert.NoError(t, guard.CheckOperation(ctx, id, OpUploadFile, 1.0))
}

func TestGuardRefusesOversizedUpload(t *testing.T) {
	m, _ := newTestManager(t)
	guard := NewGuard(m)
	ctx := context.Background()

	// storage quota 5GB, placeholder usage 0.5GB -> 4.5GB available
	id := createTestTenant(t, m, "acme", 5)

	err := guard.CheckOperation(ctx, id, OpUploadFile, 4.6)
	require.Error(t, err)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, LimitStorage, limitErr.Kind)
}

func TestGuardUnknownOperation(t *testing.T) {
	m, _ := newTestManager(t)
	guard := NewGuard(m)

	id := createTestTenant(t, m, "acme", 5)

	err := guard.CheckOperation(context.Background(), id, Operation("REINDEX"), 0)
	assert.Error(t, err)
}

func TestGuardRequireFeature(t *testing.T) {
	m, _ := newTestManager(t)
	guard := NewGuard(m)
	ctx := context.Background()

	id := createTestTenant(t, m, "acme", 5)

	assert.NoError(t, guard.RequireFeature(ctx, id, "qc_inspections"))

	err := guard.RequireFeature(ctx, id, "ai_forecasting")
	require.Error(t, err)

	var featureErr *FeatureError
	require.ErrorAs(t, err, &featureErr)
	assert.Equal(t, "ai_forecasting", featureErr.Feature)
	assert.Contains(t, err.Error(), "'ai_forecasting' is not enabled")
}
