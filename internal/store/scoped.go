package store

import "context"

// workspaceColumn is the partition key injected into every scoped operation.
const workspaceColumn = "workspace_id"

// ScopedClient decorates a Client so every call through it is automatically
// bound to one workspace. Handlers never see the unscoped client; obtaining
// a ScopedClient after tenant validation is what makes cross-tenant access a
// type-level impossibility rather than a per-query discipline.
//
// Scoping rules:
//   - Reads, updates and deletes get workspace_id merged into their filter.
//     The injected key wins; a caller supplying its own workspace_id is a
//     bug, not a supported override.
//   - When no filter was given one is synthesized, except for Count and
//     DeleteMany which pass through unscoped. That exception reproduces
//     long-standing caller expectations and is a known correctness hazard:
//     a DeleteMany with no filter acts tenant-wide. Kept visible here rather
//     than hidden in a generic proxy branch.
//   - Creates get workspace_id injected into the payload, every element for
//     a batch.
//
// Caller-supplied maps are never mutated; scoping always works on copies.
type ScopedClient struct {
	next        Client
	workspaceID string
}

// NewScopedClient binds a client to a workspace.
func NewScopedClient(next Client, workspaceID string) *ScopedClient {
	return &ScopedClient{next: next, workspaceID: workspaceID}
}

// WorkspaceID returns the workspace this client is bound to.
func (s *ScopedClient) WorkspaceID() string {
	return s.workspaceID
}

// scopeFilter merges the workspace id into a copy of the filter. When the
// filter is nil, one is synthesized unless synthesize is false.
func (s *ScopedClient) scopeFilter(where Filter, synthesize bool) Filter {
	if where == nil {
		if !synthesize {
			return nil
		}
		return Filter{workspaceColumn: s.workspaceID}
	}
	scoped := make(Filter, len(where)+1)
	for k, v := range where {
		scoped[k] = v
	}
	scoped[workspaceColumn] = s.workspaceID
	return scoped
}

// scopeRecord copies the payload with the workspace id injected.
func (s *ScopedClient) scopeRecord(data Record) Record {
	scoped := make(Record, len(data)+1)
	for k, v := range data {
		scoped[k] = v
	}
	scoped[workspaceColumn] = s.workspaceID
	return scoped
}

// FindUnique loads one row, always workspace-scoped.
func (s *ScopedClient) FindUnique(ctx context.Context, table string, where Filter, dest interface{}) error {
	return s.next.FindUnique(ctx, table, s.scopeFilter(where, true), dest)
}

// FindMany loads rows, always workspace-scoped.
func (s *ScopedClient) FindMany(ctx context.Context, table string, where Filter, dest interface{}) error {
	return s.next.FindMany(ctx, table, s.scopeFilter(where, true), dest)
}

// Count counts rows. A present filter is scoped; a nil filter passes through
// unscoped (see the type comment).
func (s *ScopedClient) Count(ctx context.Context, table string, where Filter) (int64, error) {
	return s.next.Count(ctx, table, s.scopeFilter(where, false))
}

// Create inserts one row tagged with the workspace id.
func (s *ScopedClient) Create(ctx context.Context, table string, data Record) error {
	return s.next.Create(ctx, table, s.scopeRecord(data))
}

// CreateMany inserts a batch with every element tagged with the workspace id.
func (s *ScopedClient) CreateMany(ctx context.Context, table string, data []Record) error {
	scoped := make([]Record, len(data))
	for i, d := range data {
		scoped[i] = s.scopeRecord(d)
	}
	return s.next.CreateMany(ctx, table, scoped)
}

// Update applies data to workspace-scoped rows. The update payload itself is
// not modified; only the filter is scoped.
func (s *ScopedClient) Update(ctx context.Context, table string, where Filter, data Record) (int64, error) {
	return s.next.Update(ctx, table, s.scopeFilter(where, true), data)
}

// DeleteMany removes rows. A present filter is scoped; a nil filter passes
// through unscoped and acts tenant-wide (see the type comment).
func (s *ScopedClient) DeleteMany(ctx context.Context, table string, where Filter) (int64, error) {
	return s.next.DeleteMany(ctx, table, s.scopeFilter(where, false))
}

var _ Client = (*ScopedClient)(nil)
var _ Client = (*GormClient)(nil)
