package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/arranger/internal/domain/activity"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/domain/session"
)

// Handler dispatches MCP commands.
type Handler struct {
	projects ProjectService
	sessions SessionService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		projects: services.Projects,
		sessions: services.Sessions,
		activity: services.Activity,
	}
}

var statusOK = StatusResponse{Status: "ok"}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	resp, err := h.dispatch(ctx, tenantID, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (h *Handler) dispatch(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.projects.Create(ctx, tenantID, project.CreateRequest{
			ID:            req.ID,
			Name:          req.Name,
			Description:   req.Description,
			ContainerType: req.ContainerType,
		})
	case "list_projects":
		projects, err := h.projects.List(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if projects == nil {
			projects = []project.ProjectSummary{}
		}
		return projects, nil
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getProjectOrDefault(ctx, tenantID, req.ID)
	case "export_project":
		var req ExportProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		data, err := h.projects.Export(ctx, tenantID, req.ID)
		if err != nil {
			return nil, err
		}
		return ExportProjectResponse{ProjectID: req.ID, Document: string(data)}, nil
	case "import_project":
		var req ImportProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rev, failures, err := h.projects.Import(ctx, tenantID, req.ID, []byte(req.Document))
		if err != nil {
			return nil, err
		}
		resp := ImportProjectResponse{ProjectID: req.ID, Revision: rev}
		for _, f := range failures {
			resp.Skipped = append(resp.Skipped, f.Error())
		}
		return resp, nil

	case "open_session":
		var req OpenSessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		proj, err := h.getProjectOrDefault(ctx, tenantID, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return h.sessions.Open(ctx, tenantID, proj.ID)
	case "close_session":
		var req CloseSessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.Close(ctx, tenantID, req.SessionID, req.Discard); err != nil {
			return nil, err
		}
		return StatusResponse{Status: "closed"}, nil
	case "save_session":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rev, err := h.sessions.Save(ctx, tenantID, req.SessionID)
		if err != nil {
			return nil, err
		}
		return SaveSessionResponse{SessionID: req.SessionID, Revision: rev}, nil
	case "session_status":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.Status(ctx, tenantID, req.SessionID)
	case "list_sessions":
		sessions := h.sessions.List(ctx, tenantID)
		if sessions == nil {
			sessions = []session.SessionInfo{}
		}
		return sessions, nil
	case "get_arrangement":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.Snapshot(ctx, tenantID, req.SessionID)

	case "add_track":
		var req AddTrackParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.AddTrack(ctx, tenantID, req.SessionID, req.Kind)
	case "remove_track":
		var req TrackParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.RemoveTrack(ctx, tenantID, req.SessionID, req.TrackID); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "move_track":
		var req MoveTrackParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		index, err := h.sessions.MoveTrack(ctx, tenantID, req.SessionID, req.TrackID, session.Direction(req.Direction))
		if err != nil {
			return nil, err
		}
		return MoveTrackResponse{TrackID: req.TrackID, Index: index}, nil
	case "clone_track":
		var req TrackParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.CloneTrack(ctx, tenantID, req.SessionID, req.TrackID)
	case "set_muted":
		var req SetMutedParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.SetMuted(ctx, tenantID, req.SessionID, req.TrackID, req.Muted); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "solo_track":
		var req SoloTrackParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.Solo(ctx, tenantID, req.SessionID, req.TrackID, req.Toggle); err != nil {
			return nil, err
		}
		return statusOK, nil

	case "add_clip":
		var req AddClipParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.AddClip(ctx, tenantID, req.SessionID, req.TrackID, req.Start, req.Length)
	case "move_clip":
		var req MoveClipParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.MoveClip(ctx, tenantID, req.SessionID, req.TrackID, req.ClipID, req.Start)
	case "resize_clip":
		var req ResizeClipParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.ResizeClip(ctx, tenantID, req.SessionID, req.TrackID, req.ClipID, req.Length)
	case "remove_clip":
		var req ClipParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.RemoveClip(ctx, tenantID, req.SessionID, req.TrackID, req.ClipID); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "swap_clips":
		var req SwapClipsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.SwapClips(ctx, tenantID, req.SessionID, req.TrackID, req.First, req.Second); err != nil {
			return nil, err
		}
		return statusOK, nil

	case "insert_bar":
		var req BarParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.InsertBar(ctx, tenantID, req.SessionID, req.Bar); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "remove_bar":
		var req BarParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.RemoveBar(ctx, tenantID, req.SessionID, req.Bar); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "clips_in_range":
		var req ClipsInRangeParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		clips, err := h.sessions.ClipsInRange(ctx, tenantID, req.SessionID, req.TrackID, req.Start, req.End)
		if err != nil {
			return nil, err
		}
		if clips == nil {
			clips = []session.ClipView{}
		}
		return clips, nil

	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts := activity.ListActivityOptions{
			ProjectID: req.ProjectID,
			SessionID: req.SessionID,
			TrackID:   req.TrackID,
			Limit:     req.Limit,
		}
		if req.Type != "" {
			typ := activity.ActivityType(req.Type)
			opts.ActivityType = &typ
		}
		entries, err := h.activity.GetRecentActivity(ctx, tenantID, opts)
		if err != nil {
			return nil, err
		}
		resp := make([]ActivityEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp = append(resp, ActivityEntryResponse{
				Timestamp: entry.CreatedAt,
				Type:      entry.ActivityType,
				ProjectID: entry.ProjectID,
				SessionID: stringValue(entry.SessionID),
				TrackID:   stringValue(entry.TrackID),
				Summary:   entry.Summary,
				Details:   entry.Details,
				Revision:  entry.Revision,
			})
		}
		return resp, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	}
	return nil
}

func (h *Handler) getProjectOrDefault(ctx context.Context, tenantID, projectID string) (*project.Project, error) {
	if projectID == "" {
		return h.projects.GetDefault(ctx, tenantID)
	}
	return h.projects.Get(ctx, tenantID, projectID)
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
