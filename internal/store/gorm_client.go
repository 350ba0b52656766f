package store

import (
	"context"

	"gorm.io/gorm"
)

// GormClient implements Client on a gorm database handle. Tables are
// addressed by name so the scoped decorator stays model-agnostic.
type GormClient struct {
	db *gorm.DB
}

// NewGormClient creates a gorm-backed data-access client.
func NewGormClient(db *gorm.DB) *GormClient {
	return &GormClient{db: db}
}

func (c *GormClient) query(ctx context.Context, table string, where Filter) *gorm.DB {
	q := c.db.WithContext(ctx).Table(table)
	if len(where) > 0 {
		q = q.Where(map[string]interface{}(where))
	}
	return q
}

// FindUnique loads a single row matching the filter into dest.
func (c *GormClient) FindUnique(ctx context.Context, table string, where Filter, dest interface{}) error {
	return c.query(ctx, table, where).Take(dest).Error
}

// FindMany loads every row matching the filter into dest.
func (c *GormClient) FindMany(ctx context.Context, table string, where Filter, dest interface{}) error {
	return c.query(ctx, table, where).Find(dest).Error
}

// Count returns the number of rows matching the filter.
func (c *GormClient) Count(ctx context.Context, table string, where Filter) (int64, error) {
	var count int64
	err := c.query(ctx, table, where).Count(&count).Error
	return count, err
}

// Create inserts one row.
func (c *GormClient) Create(ctx context.Context, table string, data Record) error {
	return c.db.WithContext(ctx).Table(table).Create(map[string]interface{}(data)).Error
}

// CreateMany inserts a batch of rows.
func (c *GormClient) CreateMany(ctx context.Context, table string, data []Record) error {
	if len(data) == 0 {
		return nil
	}
	payload := make([]map[string]interface{}, len(data))
	for i, d := range data {
		payload[i] = map[string]interface{}(d)
	}
	return c.db.WithContext(ctx).Table(table).Create(payload).Error
}

// Update applies data to every row matching the filter.
func (c *GormClient) Update(ctx context.Context, table string, where Filter, data Record) (int64, error) {
	result := c.query(ctx, table, where).Updates(map[string]interface{}(data))
	return result.RowsAffected, result.Error
}

// DeleteMany removes every row matching the filter.
func (c *GormClient) DeleteMany(ctx context.Context, table string, where Filter) (int64, error) {
	q := c.db.WithContext(ctx).Table(table)
	if len(where) > 0 {
		q = q.Where(map[string]interface{}(where))
	} else {
		// gorm refuses a global delete without conditions; an explicit
		// always-true condition keeps the vocabulary complete.
		q = q.Where("1 = 1")
	}
	result := q.Delete(nil)
	return result.RowsAffected, result.Error
}
