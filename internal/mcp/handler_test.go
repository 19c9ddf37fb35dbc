package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rpggio/arranger/internal/domain/activity"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/domain/session"
	"github.com/rpggio/arranger/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T) Services {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	projects := project.NewService(sqlite.NewProjectRepository(db), nil)
	acts := activity.NewService(sqlite.NewActivityRepository(db), nil)
	return Services{
		Projects: projects,
		Sessions: session.NewService(projects, acts, session.Config{}, nil),
		Activity: acts,
	}
}

func call[T any](t *testing.T, h *Handler, method string, params any) T {
	t.Helper()
	resp, err := h.Handle(context.Background(), "tenant1", method, mustJSON(t, params))
	require.NoError(t, err, method)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHandler_ProjectCommands(t *testing.T) {
	h := NewHandler(newTestServices(t))

	created := call[project.Project](t, h, "create_project", CreateProjectParams{ID: "p1", Name: "Song"})
	require.Equal(t, "p1", created.ID)
	require.Equal(t, project.DefaultContainerType, created.ContainerType)

	list := call[[]project.ProjectSummary](t, h, "list_projects", nil)
	require.Len(t, list, 1)

	got := call[project.Project](t, h, "get_project", GetProjectParams{ID: "p1"})
	require.Equal(t, "Song", got.Name)

	exported := call[ExportProjectResponse](t, h, "export_project", ExportProjectParams{ID: "p1"})
	require.Contains(t, exported.Document, "trackcontainer")

	_, err := h.Handle(context.Background(), "tenant1", "create_project", mustJSON(t, CreateProjectParams{ID: "p1", Name: "Again"}))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	require.Equal(t, "PROJECT_EXISTS", apiErr.Code)
}

func TestHandler_EditingWorkflow(t *testing.T) {
	h := NewHandler(newTestServices(t))
	call[project.Project](t, h, "create_project", CreateProjectParams{ID: "p1", Name: "Song"})

	st := call[session.Status](t, h, "open_session", OpenSessionParams{ProjectID: "p1"})
	sid := st.SessionID
	require.NotEmpty(t, sid)

	mel := call[session.TrackView](t, h, "add_track", AddTrackParams{SessionID: sid, Kind: "melodic"})
	smp := call[session.TrackView](t, h, "add_track", AddTrackParams{SessionID: sid, Kind: "sample"})

	clip := call[session.ClipView](t, h, "add_clip", AddClipParams{SessionID: sid, TrackID: mel.ID, Start: 64, Length: 128})
	require.Equal(t, 192, clip.End)
	call[session.ClipView](t, h, "add_clip", AddClipParams{SessionID: sid, TrackID: smp.ID, Start: 0, Length: 32})

	clip = call[session.ClipView](t, h, "move_clip", MoveClipParams{SessionID: sid, TrackID: mel.ID, ClipID: clip.ID, Start: 128})
	require.Equal(t, 128, clip.Start)
	clip = call[session.ClipView](t, h, "resize_clip", ResizeClipParams{SessionID: sid, TrackID: mel.ID, ClipID: clip.ID, Length: 64})
	require.Equal(t, 192, clip.End)

	moved := call[MoveTrackResponse](t, h, "move_track", MoveTrackParams{SessionID: sid, TrackID: smp.ID, Direction: "up"})
	require.Equal(t, 0, moved.Index)

	clone := call[session.TrackView](t, h, "clone_track", TrackParams{SessionID: sid, TrackID: mel.ID})
	require.Len(t, clone.Clips, 1)
	call[StatusResponse](t, h, "solo_track", SoloTrackParams{SessionID: sid, TrackID: clone.ID})
	call[StatusResponse](t, h, "set_muted", SetMutedParams{SessionID: sid, TrackID: smp.ID, Muted: false})
	call[StatusResponse](t, h, "insert_bar", BarParams{SessionID: sid, Bar: 0})
	call[StatusResponse](t, h, "remove_bar", BarParams{SessionID: sid, Bar: 0})

	clips := call[[]session.ClipView](t, h, "clips_in_range", ClipsInRangeParams{SessionID: sid, Start: 0, End: 1000})
	require.Len(t, clips, 3)
	require.Equal(t, 0, clips[0].Start)

	call[StatusResponse](t, h, "remove_track", TrackParams{SessionID: sid, TrackID: clone.ID})

	view := call[session.ArrangementView](t, h, "get_arrangement", SessionParams{SessionID: sid})
	require.Len(t, view.Tracks, 2)
	require.Equal(t, smp.ID, view.Tracks[0].ID)
	require.True(t, view.Modified)

	saved := call[SaveSessionResponse](t, h, "save_session", SessionParams{SessionID: sid})
	require.Equal(t, int64(1), saved.Revision)

	status := call[session.Status](t, h, "session_status", SessionParams{SessionID: sid})
	require.False(t, status.Modified)
	require.Equal(t, 3, status.LengthBars)

	sessions := call[[]session.SessionInfo](t, h, "list_sessions", nil)
	require.Len(t, sessions, 1)
	call[StatusResponse](t, h, "close_session", CloseSessionParams{SessionID: sid})

	entries := call[[]ActivityEntryResponse](t, h, "get_recent_activity", GetRecentActivityParams{ProjectID: "p1", Type: "track_added"})
	require.Len(t, entries, 2)
	require.Equal(t, sid, entries[0].SessionID)

	// Reopen to see the saved state.
	st = call[session.Status](t, h, "open_session", OpenSessionParams{ProjectID: "p1"})
	require.Equal(t, 2, st.TrackCount)
	require.Equal(t, int64(1), st.Revision)
}

func TestHandler_ImportProject(t *testing.T) {
	h := NewHandler(newTestServices(t))
	call[project.Project](t, h, "create_project", CreateProjectParams{ID: "src", Name: "Source"})
	call[project.Project](t, h, "create_project", CreateProjectParams{ID: "dst", Name: "Destination"})

	sid := call[session.Status](t, h, "open_session", OpenSessionParams{ProjectID: "src"}).SessionID
	call[session.TrackView](t, h, "add_track", AddTrackParams{SessionID: sid, Kind: "beatbassline"})
	call[SaveSessionResponse](t, h, "save_session", SessionParams{SessionID: sid})

	doc := call[ExportProjectResponse](t, h, "export_project", ExportProjectParams{ID: "src"}).Document
	imported := call[ImportProjectResponse](t, h, "import_project", ImportProjectParams{ID: "dst", Document: doc})
	require.Equal(t, int64(1), imported.Revision)
	require.Empty(t, imported.Skipped)

	_, err := h.Handle(context.Background(), "tenant1", "import_project", mustJSON(t, ImportProjectParams{ID: "dst", Document: "{{"}))
	require.Equal(t, "INVALID_INPUT", MapError(err).Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	h := NewHandler(newTestServices(t))
	call[project.Project](t, h, "create_project", CreateProjectParams{ID: "p1", Name: "Song"})
	sid := call[session.Status](t, h, "open_session", OpenSessionParams{ProjectID: "p1"}).SessionID
	tr := call[session.TrackView](t, h, "add_track", AddTrackParams{SessionID: sid, Kind: "melodic"})

	tests := []struct {
		method string
		params any
		code   string
	}{
		{"get_project", GetProjectParams{ID: "missing"}, "PROJECT_NOT_FOUND"},
		{"session_status", SessionParams{SessionID: "missing"}, "SESSION_NOT_FOUND"},
		{"add_track", AddTrackParams{SessionID: sid, Kind: "theremin"}, "UNKNOWN_KIND"},
		{"remove_track", TrackParams{SessionID: sid, TrackID: "missing"}, "TRACK_NOT_FOUND"},
		{"move_clip", MoveClipParams{SessionID: sid, TrackID: tr.ID, ClipID: "missing"}, "CLIP_NOT_FOUND"},
		{"swap_clips", SwapClipsParams{SessionID: sid, TrackID: tr.ID, First: 0, Second: 1}, "CLIP_INDEX_OUT_OF_RANGE"},
		{"move_track", MoveTrackParams{SessionID: sid, TrackID: tr.ID, Direction: "left"}, "INVALID_INPUT"},
		{"close_session", CloseSessionParams{SessionID: sid}, "UNSAVED_CHANGES"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			_, err := h.Handle(ctx, "tenant1", tt.method, mustJSON(t, tt.params))
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok, "%v", err)
			require.Equal(t, tt.code, apiErr.Code)
		})
	}

	_, err := h.Handle(ctx, "tenant1", "add_track", json.RawMessage(`{"kind": 3}`))
	require.Equal(t, "INVALID_PARAMS", MapError(err).Code)

	_, err = h.Handle(ctx, "tenant1", "no_such_tool", nil)
	require.Error(t, err)
	require.Nil(t, MapError(err))
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
