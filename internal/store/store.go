// Package store provides model-shaped data access with a tenant-scoped
// decorator. The Client interface mirrors the operation vocabulary the rest
// of the application issues (find/count/create/update/delete over named
// tables with map filters); ScopedClient is the single enforcement point for
// tenant isolation at the data layer.
package store

import "context"

// Filter is a conjunction of column equality conditions applied to reads,
// updates and deletes.
type Filter map[string]interface{}

// Record is a column-to-value payload for writes.
type Record map[string]interface{}

// Client is the data-access vocabulary. Implementations resolve the table
// argument to the underlying storage; all conditions are map-shaped so
// decorators can inspect and extend them.
type Client interface {
	// FindUnique loads a single row matching the filter into dest.
	FindUnique(ctx context.Context, table string, where Filter, dest interface{}) error

	// FindMany loads every row matching the filter into dest (a pointer to
	// a slice). A nil filter matches everything.
	FindMany(ctx context.Context, table string, where Filter, dest interface{}) error

	// Count returns the number of rows matching the filter. A nil filter
	// counts everything.
	Count(ctx context.Context, table string, where Filter) (int64, error)

	// Create inserts one row.
	Create(ctx context.Context, table string, data Record) error

	// CreateMany inserts a batch of rows.
	CreateMany(ctx context.Context, table string, data []Record) error

	// Update applies data to every row matching the filter.
	Update(ctx context.Context, table string, where Filter, data Record) (int64, error)

	// DeleteMany removes every row matching the filter and returns the
	// number of rows removed. A nil filter removes everything.
	DeleteMany(ctx context.Context, table string, where Filter) (int64, error)
}
