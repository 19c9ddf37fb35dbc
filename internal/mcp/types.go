package mcp

import (
	"time"

	"github.com/rpggio/arranger/internal/domain/activity"
)

type CreateProjectParams struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContainerType string `json:"container_type,omitempty"`
}

type GetProjectParams struct {
	ID string `json:"id,omitempty"`
}

type ExportProjectParams struct {
	ID string `json:"id"`
}

type ImportProjectParams struct {
	ID       string `json:"id"`
	Document string `json:"document"`
}

type OpenSessionParams struct {
	ProjectID string `json:"project_id,omitempty"`
}

type SessionParams struct {
	SessionID string `json:"session_id"`
}

type CloseSessionParams struct {
	SessionID string `json:"session_id"`
	Discard   bool   `json:"discard,omitempty"`
}

type AddTrackParams struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
}

type TrackParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
}

type MoveTrackParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	Direction string `json:"direction"`
}

type SetMutedParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	Muted     bool   `json:"muted"`
}

type SoloTrackParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	Toggle    bool   `json:"toggle,omitempty"`
}

type AddClipParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	Start     int    `json:"start"`
	Length    int    `json:"length,omitempty"`
}

type ClipParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	ClipID    string `json:"clip_id"`
}

type MoveClipParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	ClipID    string `json:"clip_id"`
	Start     int    `json:"start"`
}

type ResizeClipParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	ClipID    string `json:"clip_id"`
	Length    int    `json:"length"`
}

type SwapClipsParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id"`
	First     int    `json:"first"`
	Second    int    `json:"second"`
}

type BarParams struct {
	SessionID string `json:"session_id"`
	Bar       int    `json:"bar"`
}

type ClipsInRangeParams struct {
	SessionID string `json:"session_id"`
	TrackID   string `json:"track_id,omitempty"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
}

type GetRecentActivityParams struct {
	ProjectID string  `json:"project_id,omitempty"`
	SessionID *string `json:"session_id,omitempty"`
	TrackID   *string `json:"track_id,omitempty"`
	Type      string  `json:"type,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

type ExportProjectResponse struct {
	ProjectID string `json:"project_id"`
	Document  string `json:"document"`
}

type ImportProjectResponse struct {
	ProjectID string   `json:"project_id"`
	Revision  int64    `json:"revision"`
	Skipped   []string `json:"skipped,omitempty"`
}

type SaveSessionResponse struct {
	SessionID string `json:"session_id"`
	Revision  int64  `json:"revision"`
}

type MoveTrackResponse struct {
	TrackID string `json:"track_id"`
	Index   int    `json:"index"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time             `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	ProjectID string                `json:"project_id"`
	SessionID string                `json:"session_id,omitempty"`
	TrackID   string                `json:"track_id,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
	Revision  int64                 `json:"revision"`
}
