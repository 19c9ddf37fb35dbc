package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	GetDefault(ctx context.Context, tenantID string) (*Project, error)
	List(ctx context.Context, tenantID string) ([]ProjectSummary, error)
	// SaveDocument stores doc if the project is still at expectedRevision
	// and returns the new revision.
	SaveDocument(ctx context.Context, tenantID, projectID string, doc Document, expectedRevision int64) (int64, error)
	// LoadDocument returns the stored document, empty for a project that
	// was never saved, and its revision.
	LoadDocument(ctx context.Context, tenantID, projectID string) ([]byte, int64, error)
}
