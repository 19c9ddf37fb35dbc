package session

import (
	"context"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/domain/project"
)

// ProjectStore loads and saves project arrangements.
type ProjectStore interface {
	LoadArrangement(ctx context.Context, tenantID, projectID string, opts project.LoadOptions) (*project.Arrangement, error)
	SaveArrangement(ctx context.Context, tenantID, projectID string, c *arrangement.Container, expectedRevision int64) (int64, error)
}
