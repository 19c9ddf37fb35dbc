package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated  ActivityType = "project_created"
	TypeProjectSaved    ActivityType = "project_saved"
	TypeProjectLoaded   ActivityType = "project_loaded"
	TypeLoadCancelled   ActivityType = "load_cancelled"
	TypeTrackAdded      ActivityType = "track_added"
	TypeTrackRemoved    ActivityType = "track_removed"
	TypeTrackCloned     ActivityType = "track_cloned"
	TypeTracksReordered ActivityType = "tracks_reordered"
	TypeBarInserted     ActivityType = "bar_inserted"
	TypeBarRemoved      ActivityType = "bar_removed"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	TenantID     string       `json:"tenant_id"`
	ProjectID    string       `json:"project_id"`
	SessionID    *string      `json:"session_id,omitempty"`
	TrackID      *string      `json:"track_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
	Revision     int64        `json:"revision"`
}

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeProjectCreated, TypeProjectSaved, TypeProjectLoaded, TypeLoadCancelled,
		TypeTrackAdded, TypeTrackRemoved, TypeTrackCloned, TypeTracksReordered,
		TypeBarInserted, TypeBarRemoved:
		return true
	}
	return false
}

// TrackScoped reports whether entries of type t concern a single track and
// must carry its id.
func (t ActivityType) TrackScoped() bool {
	switch t {
	case TypeTrackAdded, TypeTrackRemoved, TypeTrackCloned, TypeTracksReordered:
		return true
	}
	return false
}
