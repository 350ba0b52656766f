package store

import (
	"context"
	"testing"
	"time"

	"github.com/AshAI-Sys/ashley-ai-sub006/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestClient(t *testing.T) (*GormClient, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every pooled connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Order{}))

	return NewGormClient(db), db
}

func seedOrder(t *testing.T, db *gorm.DB, workspaceID, number, status string) {
	t.Helper()
	row := model.Order{WorkspaceID: workspaceID, OrderNumber: number, Status: status}
	require.NoError(t, db.Create(&row).Error)
}

func TestGormClientRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	now := time.Now()
	err := client.Create(ctx, "orders", Record{
		"id":           model.NewID(model.OrderPrefix),
		"workspace_id": "clws1",
		"order_number": "SO-1",
		"status":       model.OrderStatusDraft,
		"created_at":   now,
		"updated_at":   now,
	})
	require.NoError(t, err)

	var orders []model.Order
	require.NoError(t, client.FindMany(ctx, "orders", Filter{"workspace_id": "clws1"}, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-1", orders[0].OrderNumber)

	var single model.Order
	require.NoError(t, client.FindUnique(ctx, "orders", Filter{"order_number": "SO-1"}, &single))
	assert.Equal(t, "clws1", single.WorkspaceID)

	count, err := client.Count(ctx, "orders", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	affected, err := client.Update(ctx, "orders", Filter{"order_number": "SO-1"}, Record{"status": model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	require.NoError(t, client.FindUnique(ctx, "orders", Filter{"order_number": "SO-1"}, &single))
	assert.Equal(t, model.OrderStatusConfirmed, single.Status)

	removed, err := client.DeleteMany(ctx, "orders", Filter{"workspace_id": "clws1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestGormClientDeleteManyWithoutFilterRemovesAll(t *testing.T) {
	client, db := newTestClient(t)
	ctx := context.Background()

	seedOrder(t, db, "clws1", "SO-1", model.OrderStatusDraft)
	seedOrder(t, db, "clws2", "SO-2", model.OrderStatusDraft)

	removed, err := client.DeleteMany(ctx, "orders", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
}

func TestScopedClientIsolatesTenantsEndToEnd(t *testing.T) {
	client, db := newTestClient(t)
	ctx := context.Background()

	seedOrder(t, db, "clws1", "SO-A1", model.OrderStatusInProduction)
	seedOrder(t, db, "clws1", "SO-A2", model.OrderStatusDraft)
	seedOrder(t, db, "clws2", "SO-B1", model.OrderStatusInProduction)

	scoped := NewScopedClient(client, "clws1")

	// Reads only see the bound workspace
	var orders []model.Order
	require.NoError(t, scoped.FindMany(ctx, "orders", nil, &orders))
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "clws1", o.WorkspaceID)
	}

	// Caller filter is preserved alongside the injected scope
	orders = nil
	require.NoError(t, scoped.FindMany(ctx, "orders", Filter{"status": model.OrderStatusInProduction}, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "SO-A1", orders[0].OrderNumber)

	// Writes land tagged with the bound workspace
	now := time.Now()
	require.NoError(t, scoped.Create(ctx, "orders", Record{
		"id":           model.NewID(model.OrderPrefix),
		"order_number": "SO-A3",
		"status":       model.OrderStatusDraft,
		"created_at":   now,
		"updated_at":   now,
	}))

	var created model.Order
	require.NoError(t, db.Where("order_number = ?", "SO-A3").First(&created).Error)
	assert.Equal(t, "clws1", created.WorkspaceID)

	// Scoped delete with a filter never crosses the boundary
	removed, err := scoped.DeleteMany(ctx, "orders", Filter{"status": model.OrderStatusInProduction})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var other model.Order
	require.NoError(t, db.Where("order_number = ?", "SO-B1").First(&other).Error)
	assert.Equal(t, "clws2", other.WorkspaceID, "other tenant's row must survive")
}
