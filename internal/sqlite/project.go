package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, tenant_id, name, description, container_type, revision, track_count, length_bars, created_at, saved_at`

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, description, container_type, revision, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.Name,
		proj.Description,
		proj.ContainerType,
		proj.Revision,
		proj.CreatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("project %s: %w", proj.ID, repository.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND tenant_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// GetDefault retrieves the default project for a tenant (the first created project)
func (r *ProjectRepository) GetDefault(ctx context.Context, tenantID string) (*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE tenant_id = ?
		ORDER BY created_at ASC
		LIMIT 1
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default project: %w", err)
	}

	return proj, nil
}

// List returns all projects for a tenant, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.ProjectSummary, error) {
	query := `
		SELECT id, name, description, container_type, revision, track_count, length_bars, created_at, saved_at
		FROM projects
		WHERE tenant_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		var savedAt sql.NullTime
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Description,
			&summary.ContainerType,
			&summary.Revision,
			&summary.TrackCount,
			&summary.LengthBars,
			&summary.CreatedAt,
			&savedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		if savedAt.Valid {
			summary.SavedAt = &savedAt.Time
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return summaries, nil
}

// SaveDocument stores the arrangement document if the project is still at
// expectedRevision and returns the incremented revision
func (r *ProjectRepository) SaveDocument(ctx context.Context, tenantID, projectID string, doc project.Document, expectedRevision int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updateQuery := `
		UPDATE projects
		SET document = ?, revision = revision + 1, track_count = ?, length_bars = ?, saved_at = ?
		WHERE id = ? AND tenant_id = ? AND revision = ?
	`

	result, err := tx.ExecContext(ctx, updateQuery,
		string(doc.Data),
		doc.TrackCount,
		doc.LengthBars,
		time.Now(),
		projectID,
		tenantID,
		expectedRevision,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	var newRevision int64
	err = tx.QueryRowContext(ctx,
		`SELECT revision FROM projects WHERE id = ? AND tenant_id = ?`,
		projectID, tenantID,
	).Scan(&newRevision)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get new revision: %w", err)
	}

	// The row exists but is at another revision.
	if rowsAffected == 0 {
		return 0, fmt.Errorf("project %s at revision %d, expected %d: %w",
			projectID, newRevision, expectedRevision, repository.ErrConflict)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return newRevision, nil
}

// LoadDocument returns the stored arrangement document and its revision
func (r *ProjectRepository) LoadDocument(ctx context.Context, tenantID, projectID string) ([]byte, int64, error) {
	var doc sql.NullString
	var revision int64
	err := r.db.QueryRowContext(ctx,
		`SELECT document, revision FROM projects WHERE id = ? AND tenant_id = ?`,
		projectID, tenantID,
	).Scan(&doc, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, repository.ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load document: %w", err)
	}

	if !doc.Valid {
		return nil, revision, nil
	}
	return []byte(doc.String), revision, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	var savedAt sql.NullTime
	err := row.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Name,
		&proj.Description,
		&proj.ContainerType,
		&proj.Revision,
		&proj.TrackCount,
		&proj.LengthBars,
		&proj.CreatedAt,
		&savedAt,
	)
	if err != nil {
		return nil, err
	}
	if savedAt.Valid {
		proj.SavedAt = &savedAt.Time
	}
	return &proj, nil
}
