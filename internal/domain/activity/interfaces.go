package activity

import "context"

// Repository stores the activity log of arrangement projects. Entries are
// scoped by tenant and must reference an existing project; List returns
// them newest first.
type Repository interface {
	Log(ctx context.Context, tenantID string, entry *ActivityEntry) error
	List(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error)
}

// Logger records arrangement edits. Editing sessions log through it after
// an edit is applied, so a failed log never undoes the edit.
type Logger interface {
	LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error
}
