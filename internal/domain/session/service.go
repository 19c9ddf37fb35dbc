package session

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/domain/activity"
	"github.com/rpggio/arranger/internal/domain/project"
)

// Config holds the view settings of opened arrangements.
type Config struct {
	PixelsPerBar  float64
	ViewportWidth int
	// LoadTimeout bounds how long Open may spend loading; zero means no bound.
	LoadTimeout time.Duration
}

// Service keeps arrangements open for editing. Each open arrangement is
// owned by one session; calls on the same session are serialized.
type Service struct {
	projects ProjectStore
	activity activity.Logger
	logger   *slog.Logger
	config   Config

	mu   sync.Mutex
	open map[string]*editor
}

type editor struct {
	mu        sync.Mutex
	sess      Session
	container *arrangement.Container
	skipped   []string
}

// NewService creates a new session service.
func NewService(projects ProjectStore, activities activity.Logger, config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		projects: projects,
		activity: activities,
		logger:   logger,
		config:   config,
		open:     make(map[string]*editor),
	}
}

// Open loads a project's arrangement into a new session. Records that
// cannot be read are skipped and listed in the returned status. A load
// that does not finish is discarded and reported as ErrLoadIncomplete.
func (s *Service) Open(ctx context.Context, tenantID, projectID string) (*Status, error) {
	if projectID == "" {
		return nil, ErrInvalidInput
	}

	loadCtx := ctx
	if s.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, s.config.LoadTimeout)
		defer cancel()
	}

	sessionID := uuid.NewString()
	ar, err := s.projects.LoadArrangement(loadCtx, tenantID, projectID, project.LoadOptions{
		Changes:       &arrangement.ChangeTracker{},
		PixelsPerBar:  s.config.PixelsPerBar,
		ViewportWidth: s.config.ViewportWidth,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	e := &editor{
		sess: Session{
			ID:           sessionID,
			TenantID:     tenantID,
			ProjectID:    projectID,
			Revision:     ar.Revision,
			CreatedAt:    now,
			LastActivity: now,
		},
		container: ar.Container,
	}
	for _, f := range ar.Session.Failures() {
		e.skipped = append(e.skipped, f.Error())
	}

	if ar.Session.Cancelled() {
		s.record(ctx, e, "", activity.TypeLoadCancelled,
			fmt.Sprintf("Load stopped after %d of %d records", ar.Session.Done(), ar.Session.Total()))
		return nil, fmt.Errorf("%w: %w", ErrLoadIncomplete, ar.Session.Err())
	}

	s.mu.Lock()
	s.open[sessionID] = e
	s.mu.Unlock()

	s.record(ctx, e, "", activity.TypeProjectLoaded,
		fmt.Sprintf("Opened with %d tracks", e.container.NumTracks()))
	s.logger.Info("session opened", "session_id", sessionID, "project_id", projectID, "skipped", len(e.skipped))
	return e.status(), nil
}

// Close ends a session. A modified arrangement is only dropped with discard.
func (s *Service) Close(ctx context.Context, tenantID, sessionID string, discard bool) error {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.container.Changes().Modified() && !discard {
		return ErrUnsavedChanges
	}

	s.mu.Lock()
	delete(s.open, sessionID)
	s.mu.Unlock()
	s.logger.Info("session closed", "session_id", sessionID, "discarded", e.container.Changes().Modified())
	return nil
}

// Save stores the arrangement as the next project revision.
func (s *Service) Save(ctx context.Context, tenantID, sessionID string) (int64, error) {
	var rev int64
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		var err error
		rev, err = s.projects.SaveArrangement(ctx, tenantID, e.sess.ProjectID, e.container, e.sess.Revision)
		if err != nil {
			return err
		}
		e.sess.Revision = rev
		s.record(ctx, e, "", activity.TypeProjectSaved,
			fmt.Sprintf("Saved revision %d with %d tracks", rev, e.container.NumTracks()))
		return nil
	})
	return rev, err
}

// Status reports the state of a session.
func (s *Service) Status(ctx context.Context, tenantID, sessionID string) (*Status, error) {
	var st *Status
	err := s.read(tenantID, sessionID, func(e *editor) error {
		st = e.status()
		return nil
	})
	return st, err
}

// List returns the open sessions of a tenant, oldest first.
func (s *Service) List(ctx context.Context, tenantID string) []SessionInfo {
	s.mu.Lock()
	editors := make([]*editor, 0, len(s.open))
	for _, e := range s.open {
		editors = append(editors, e)
	}
	s.mu.Unlock()

	var infos []SessionInfo
	for _, e := range editors {
		e.mu.Lock()
		if e.sess.TenantID == tenantID {
			infos = append(infos, SessionInfo{
				SessionID:    e.sess.ID,
				ProjectID:    e.sess.ProjectID,
				Modified:     e.container.Changes().Modified(),
				CreatedAt:    e.sess.CreatedAt,
				LastActivity: e.sess.LastActivity,
			})
		}
		e.mu.Unlock()
	}
	slices.SortFunc(infos, func(a, b SessionInfo) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return infos
}

// Snapshot returns every track and clip of the arrangement.
func (s *Service) Snapshot(ctx context.Context, tenantID, sessionID string) (*ArrangementView, error) {
	var view *ArrangementView
	err := s.read(tenantID, sessionID, func(e *editor) error {
		tracks := e.container.Tracks()
		view = &ArrangementView{
			SessionID:     e.sess.ID,
			ProjectID:     e.sess.ProjectID,
			ContainerType: e.container.Type(),
			Revision:      e.sess.Revision,
			Modified:      e.container.Changes().Modified(),
			LengthBars:    e.container.Length(),
			Tracks:        make([]TrackView, 0, len(tracks)),
		}
		for i, t := range tracks {
			view.Tracks = append(view.Tracks, trackView(t, i))
		}
		return nil
	})
	return view, err
}

// AddTrack appends a new track of the named kind.
func (s *Service) AddTrack(ctx context.Context, tenantID, sessionID, kind string) (*TrackView, error) {
	k, err := arrangement.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var view *TrackView
	err = s.edit(tenantID, sessionID, func(e *editor) error {
		t, err := e.container.NewTrack(k)
		if err != nil {
			return err
		}
		v := trackView(t, e.container.NumTracks()-1)
		view = &v
		s.record(ctx, e, t.ID(), activity.TypeTrackAdded, fmt.Sprintf("Added %s track", k))
		return nil
	})
	return view, err
}

// RemoveTrack deletes a track together with its clips.
func (s *Service) RemoveTrack(ctx context.Context, tenantID, sessionID, trackID string) error {
	return s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		kind := t.Kind()
		e.container.RemoveTrack(t)
		s.record(ctx, e, trackID, activity.TypeTrackRemoved, fmt.Sprintf("Removed %s track", kind))
		return nil
	})
}

// MoveTrack moves a track one place and returns its new index. Moving past
// either end leaves the order unchanged.
func (s *Service) MoveTrack(ctx context.Context, tenantID, sessionID, trackID string, dir Direction) (int, error) {
	var index int
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		t, from, err := e.track(trackID)
		if err != nil {
			return err
		}
		switch dir {
		case DirectionUp:
			e.container.MoveTrackUp(t)
		case DirectionDown:
			e.container.MoveTrackDown(t)
		default:
			return fmt.Errorf("%w: direction %q", ErrInvalidInput, dir)
		}
		index, _ = e.container.IndexOf(t)
		if index != from {
			s.record(ctx, e, trackID, activity.TypeTracksReordered,
				fmt.Sprintf("Moved track %s from %d to %d", dir, from, index))
		}
		return nil
	})
	return index, err
}

// CloneTrack appends a copy of a track and its clips.
func (s *Service) CloneTrack(ctx context.Context, tenantID, sessionID, trackID string) (*TrackView, error) {
	var view *TrackView
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		clone, err := e.container.CloneTrack(t)
		if err != nil {
			return fmt.Errorf("cloning track: %w", err)
		}
		v := trackView(clone, e.container.NumTracks()-1)
		view = &v
		s.record(ctx, e, clone.ID(), activity.TypeTrackCloned, fmt.Sprintf("Cloned track %s", trackID))
		return nil
	})
	return view, err
}

// SetMuted mutes or unmutes a track.
func (s *Service) SetMuted(ctx context.Context, tenantID, sessionID, trackID string, muted bool) error {
	return s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		t.SetMuted(muted)
		return nil
	})
}

// Solo mutes every track but one. With toggle the solo state of the track
// is flipped instead.
func (s *Service) Solo(ctx context.Context, tenantID, sessionID, trackID string, toggle bool) error {
	return s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		if toggle {
			return e.container.ToggleSolo(t)
		}
		return e.container.Solo(t)
	})
}

// AddClip places a new clip on a track. A zero length leaves the clip at
// its initial length.
func (s *Service) AddClip(ctx context.Context, tenantID, sessionID, trackID string, start, length int) (*ClipView, error) {
	if start < 0 || length < 0 {
		return nil, ErrInvalidInput
	}

	var view *ClipView
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		c := t.CreateClip(arrangement.Ticks(start))
		i, err := t.AddClip(c)
		if err != nil {
			return err
		}
		if length > 0 {
			c.Resize(arrangement.Ticks(length))
		}
		v := clipView(c, i)
		view = &v
		return nil
	})
	return view, err
}

// MoveClip places a clip at a new start position, clamped to zero.
func (s *Service) MoveClip(ctx context.Context, tenantID, sessionID, trackID, clipID string, start int) (*ClipView, error) {
	var view *ClipView
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		c, i, err := e.clip(trackID, clipID)
		if err != nil {
			return err
		}
		c.Move(arrangement.Ticks(start))
		v := clipView(c, i)
		view = &v
		return nil
	})
	return view, err
}

// ResizeClip sets a clip's length. Auto-resizing clips refuse manual
// resizes, as do clips whose length a fixed-layout container derives.
func (s *Service) ResizeClip(ctx context.Context, tenantID, sessionID, trackID, clipID string, length int) (*ClipView, error) {
	if length < 0 {
		return nil, ErrInvalidInput
	}

	var view *ClipView
	err := s.edit(tenantID, sessionID, func(e *editor) error {
		c, i, err := e.clip(trackID, clipID)
		if err != nil {
			return err
		}
		switch {
		case c.AutoResize():
			return arrangement.ErrAutoResize
		case e.container.FixedLayout() && c.Track().Behavior().DerivedLength():
			return arrangement.ErrFixedLayout
		}
		c.Resize(arrangement.Ticks(length))
		v := clipView(c, i)
		view = &v
		return nil
	})
	return view, err
}

// RemoveClip deletes a clip from its track.
func (s *Service) RemoveClip(ctx context.Context, tenantID, sessionID, trackID, clipID string) error {
	return s.edit(tenantID, sessionID, func(e *editor) error {
		c, i, err := e.clip(trackID, clipID)
		if err != nil {
			return err
		}
		_, err = c.Track().RemoveClip(i, true)
		return err
	})
}

// SwapClips exchanges the start positions of two clips of a track,
// addressed by index.
func (s *Service) SwapClips(ctx context.Context, tenantID, sessionID, trackID string, i, j int) error {
	return s.edit(tenantID, sessionID, func(e *editor) error {
		t, _, err := e.track(trackID)
		if err != nil {
			return err
		}
		return t.SwapClipPositions(i, j)
	})
}

// InsertBar shifts every clip starting at or after bar one bar forward.
func (s *Service) InsertBar(ctx context.Context, tenantID, sessionID string, bar int) error {
	if bar < 0 {
		return ErrInvalidInput
	}
	return s.edit(tenantID, sessionID, func(e *editor) error {
		e.container.InsertBar(arrangement.Ticks(bar) * arrangement.TicksPerBar)
		s.record(ctx, e, "", activity.TypeBarInserted, fmt.Sprintf("Inserted bar at %d", bar))
		return nil
	})
}

// RemoveBar shifts every clip starting at or after bar one bar back.
func (s *Service) RemoveBar(ctx context.Context, tenantID, sessionID string, bar int) error {
	if bar < 0 {
		return ErrInvalidInput
	}
	return s.edit(tenantID, sessionID, func(e *editor) error {
		e.container.RemoveBar(arrangement.Ticks(bar) * arrangement.TicksPerBar)
		s.record(ctx, e, "", activity.TypeBarRemoved, fmt.Sprintf("Removed bar at %d", bar))
		return nil
	})
}

// ClipsInRange lists the clips overlapping [start, end] in ticks, both ends
// inclusive. An empty trackID searches every track; results are ordered by
// start, then track order.
func (s *Service) ClipsInRange(ctx context.Context, tenantID, sessionID, trackID string, start, end int) ([]ClipView, error) {
	if end < start {
		return nil, ErrInvalidInput
	}

	var views []ClipView
	err := s.read(tenantID, sessionID, func(e *editor) error {
		tracks := e.container.Tracks()
		if trackID != "" {
			t, _, err := e.track(trackID)
			if err != nil {
				return err
			}
			tracks = []*arrangement.Track{t}
		}
		for _, t := range tracks {
			for _, c := range t.ClipsInRange(arrangement.Ticks(start), arrangement.Ticks(end)) {
				i, _ := t.IndexOf(c)
				views = append(views, clipView(c, i))
			}
		}
		return nil
	})
	slices.SortStableFunc(views, func(a, b ClipView) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return views, err
}

func (s *Service) lookup(tenantID, sessionID string) (*editor, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	s.mu.Lock()
	e, ok := s.open[sessionID]
	s.mu.Unlock()
	if !ok || e.sess.TenantID != tenantID {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *Service) read(tenantID, sessionID string, fn func(e *editor) error) error {
	e, err := s.lookup(tenantID, sessionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e)
}

func (s *Service) edit(tenantID, sessionID string, fn func(e *editor) error) error {
	return s.read(tenantID, sessionID, func(e *editor) error {
		e.sess.LastActivity = time.Now()
		return fn(e)
	})
}

// record writes an activity entry. Failures are logged, not returned; the
// edit itself has already happened.
func (s *Service) record(ctx context.Context, e *editor, trackID string, typ activity.ActivityType, summary string) {
	if s.activity == nil {
		return
	}
	sessionID := e.sess.ID
	entry := &activity.ActivityEntry{
		ProjectID:    e.sess.ProjectID,
		SessionID:    &sessionID,
		ActivityType: typ,
		Summary:      summary,
		Revision:     e.sess.Revision,
	}
	if trackID != "" {
		entry.TrackID = &trackID
	}
	if err := s.activity.LogActivity(ctx, e.sess.TenantID, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", typ, "session_id", sessionID, "error", err)
	}
}

func (e *editor) status() *Status {
	return &Status{
		SessionID:  e.sess.ID,
		ProjectID:  e.sess.ProjectID,
		Revision:   e.sess.Revision,
		Modified:   e.container.Changes().Modified(),
		Changes:    e.container.Changes().Changes(),
		TrackCount: e.container.NumTracks(),
		LengthBars: e.container.Length(),
		Skipped:    e.skipped,
	}
}

func (e *editor) track(id string) (*arrangement.Track, int, error) {
	t, i, ok := e.container.TrackByID(id)
	if !ok {
		return nil, 0, fmt.Errorf("track %s: %w", id, ErrTrackNotFound)
	}
	return t, i, nil
}

func (e *editor) clip(trackID, clipID string) (*arrangement.Clip, int, error) {
	t, _, err := e.track(trackID)
	if err != nil {
		return nil, 0, err
	}
	c, i, ok := t.ClipByID(clipID)
	if !ok {
		return nil, 0, fmt.Errorf("clip %s: %w", clipID, ErrClipNotFound)
	}
	return c, i, nil
}

// IsNotFound reports whether err means a session, track or clip is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrTrackNotFound) || errors.Is(err, ErrClipNotFound)
}
