package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/document"
	"github.com/rpggio/arranger/internal/repository"
)

const (
	// DefaultContainerType is the view of projects created without one.
	DefaultContainerType = "songeditor"
	// PatternEditorType is the fixed-layout view whose beat/bassline clips
	// always span the visible width.
	PatternEditorType = "bbeditor"
)

func fixedLayout(containerType string) bool {
	return containerType == PatternEditorType
}

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID            string
	Name          string
	Description   string
	ContainerType string
}

// Create creates a new project with an empty arrangement.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	typ := req.ContainerType
	if strings.TrimSpace(typ) == "" {
		typ = DefaultContainerType
	}

	proj := &Project{
		ID:            id,
		TenantID:      tenantID,
		Name:          req.Name,
		Description:   req.Description,
		ContainerType: typ,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrProjectExists
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// GetDefault returns the default project, creating one if missing.
func (s *Service) GetDefault(ctx context.Context, tenantID string) (*Project, error) {
	proj, err := s.repo.GetDefault(ctx, tenantID)
	if err == nil {
		return proj, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("getting default project: %w", err)
	}
	return s.Create(ctx, tenantID, CreateRequest{
		Name: "Default Project",
	})
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, tenantID string) ([]ProjectSummary, error) {
	return s.repo.List(ctx, tenantID)
}

// SaveArrangement stores c as the project's arrangement. The save only
// succeeds if nobody else saved since expectedRevision; on success the
// container's modified flag is cleared and the new revision returned.
func (s *Service) SaveArrangement(ctx context.Context, tenantID, projectID string, c *arrangement.Container, expectedRevision int64) (int64, error) {
	data, err := document.Marshal(c.Save())
	if err != nil {
		return 0, fmt.Errorf("encoding arrangement: %w", err)
	}

	rev, err := s.repo.SaveDocument(ctx, tenantID, projectID, Document{
		Data:       data,
		TrackCount: c.NumTracks(),
		LengthBars: c.Length(),
	}, expectedRevision)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return 0, ErrProjectNotFound
	case errors.Is(err, repository.ErrConflict):
		return 0, ErrRevisionConflict
	case err != nil:
		return 0, fmt.Errorf("saving arrangement: %w", err)
	}

	c.Changes().ClearModified()
	s.logger.Info("arrangement saved", "project_id", projectID, "revision", rev, "tracks", c.NumTracks())
	return rev, nil
}

// LoadOptions configures the container built by LoadArrangement.
type LoadOptions struct {
	Engine        arrangement.Engine
	Changes       *arrangement.ChangeTracker
	PixelsPerBar  float64
	ViewportWidth int
	// Progress receives (done, total) record counts while loading.
	Progress func(done, total int)
}

// Arrangement is a project loaded into a live container.
type Arrangement struct {
	Project   *Project
	Container *arrangement.Container
	Revision  int64
	// Session reports skipped records and whether the load was cancelled.
	// A cancelled load leaves the tracks read so far in Container.
	Session *arrangement.LoadSession
}

// LoadArrangement reads the project's arrangement into a new container.
// Records that cannot be read are skipped and reported through the
// returned load session. The modified flag is cleared unless the load was
// cancelled.
func (s *Service) LoadArrangement(ctx context.Context, tenantID, projectID string, opts LoadOptions) (*Arrangement, error) {
	proj, err := s.Get(ctx, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	data, rev, err := s.repo.LoadDocument(ctx, tenantID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading arrangement: %w", err)
	}

	c := arrangement.NewContainer(arrangement.Options{
		Type:          proj.ContainerType,
		FixedLayout:   fixedLayout(proj.ContainerType),
		PixelsPerBar:  opts.PixelsPerBar,
		ViewportWidth: opts.ViewportWidth,
		Engine:        opts.Engine,
		Changes:       opts.Changes,
		Logger:        s.logger.With("project_id", projectID),
	})
	sess := arrangement.NewLoadSession(opts.Progress)

	if len(data) > 0 {
		root, err := document.Unmarshal(data)
		if err != nil {
			return nil, fmt.Errorf("decoding arrangement: %w", err)
		}
		if err := c.Load(ctx, root, sess); err != nil {
			return nil, fmt.Errorf("loading arrangement: %w", err)
		}
	}

	if sess.Cancelled() {
		s.logger.Warn("arrangement load cancelled", "project_id", projectID, "loaded", sess.Done(), "records", sess.Total())
	} else {
		c.Changes().ClearModified()
	}
	for _, f := range sess.Failures() {
		s.logger.Warn("arrangement record skipped", "project_id", projectID, "error", f)
	}

	return &Arrangement{Project: proj, Container: c, Revision: rev, Session: sess}, nil
}

// Export returns the stored arrangement document of a project.
func (s *Service) Export(ctx context.Context, tenantID, projectID string) ([]byte, error) {
	data, _, err := s.repo.LoadDocument(ctx, tenantID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("exporting arrangement: %w", err)
	}
	if len(data) == 0 {
		proj, err := s.Get(ctx, tenantID, projectID)
		if err != nil {
			return nil, err
		}
		return document.Marshal(arrangement.NewContainer(arrangement.Options{
			Type:        proj.ContainerType,
			FixedLayout: fixedLayout(proj.ContainerType),
		}).Save())
	}
	return data, nil
}

// Import replaces the project's arrangement with the tracks of an encoded
// document. The document goes through a full load so that only records
// the model accepts are stored; skipped records are returned.
func (s *Service) Import(ctx context.Context, tenantID, projectID string, data []byte) (int64, []*arrangement.RecordError, error) {
	root, err := document.Unmarshal(data)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	proj, err := s.Get(ctx, tenantID, projectID)
	if err != nil {
		return 0, nil, err
	}

	c := arrangement.NewContainer(arrangement.Options{
		Type:        proj.ContainerType,
		FixedLayout: fixedLayout(proj.ContainerType),
		Logger:      s.logger.With("project_id", projectID),
	})
	sess := arrangement.NewLoadSession(nil)
	if err := c.Load(ctx, root, sess); err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := sess.Err(); err != nil {
		return 0, nil, err
	}

	rev, err := s.SaveArrangement(ctx, tenantID, projectID, c, proj.Revision)
	if err != nil {
		return 0, nil, err
	}
	return rev, sess.Failures(), nil
}
