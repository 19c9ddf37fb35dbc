package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultListLimit applies when a listing asks for no limit.
	DefaultListLimit = 50
	// MaxListLimit caps the entries returned by one listing.
	MaxListLimit = 500
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

var _ Logger = (*Service)(nil)

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// LogActivity validates and stores an entry, stamping the current time if
// missing. Track events must name their track.
func (s *Service) LogActivity(ctx context.Context, tenantID string, entry *ActivityEntry) error {
	switch {
	case entry == nil || entry.ProjectID == "":
		return ErrInvalidInput
	case !entry.ActivityType.Valid():
		return fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, entry.ActivityType)
	case entry.ActivityType.TrackScoped() && (entry.TrackID == nil || *entry.TrackID == ""):
		return fmt.Errorf("%w: %s entry without track id", ErrInvalidInput, entry.ActivityType)
	case entry.Details != "" && !json.Valid([]byte(entry.Details)):
		return fmt.Errorf("%w: details must be JSON", ErrInvalidInput)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, tenantID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.logger.Debug("activity logged", "project_id", entry.ProjectID, "type", entry.ActivityType)
	return nil
}

// GetRecentActivity lists activity entries, newest first. The limit
// defaults to DefaultListLimit and is capped at MaxListLimit.
func (s *Service) GetRecentActivity(ctx context.Context, tenantID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, fmt.Errorf("%w: unknown activity type %q", ErrInvalidInput, *opts.ActivityType)
	}
	switch {
	case opts.Limit <= 0:
		opts.Limit = DefaultListLimit
	case opts.Limit > MaxListLimit:
		opts.Limit = MaxListLimit
	}
	opts.Offset = max(opts.Offset, 0)
	return s.repo.List(ctx, tenantID, opts)
}
