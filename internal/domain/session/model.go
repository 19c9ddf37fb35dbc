package session

import (
	"time"

	"github.com/rpggio/arranger/internal/arrangement"
)

// Direction is the way a track moves in the container.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Session represents an arrangement opened for editing
type Session struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	ProjectID    string    `json:"project_id"`
	Revision     int64     `json:"revision"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// SessionInfo provides information about an open session
type SessionInfo struct {
	SessionID    string    `json:"session_id"`
	ProjectID    string    `json:"project_id"`
	Modified     bool      `json:"modified"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// Status summarizes the state of an open arrangement.
type Status struct {
	SessionID  string `json:"session_id"`
	ProjectID  string `json:"project_id"`
	Revision   int64  `json:"revision"`
	Modified   bool   `json:"modified"`
	Changes    int    `json:"changes"`
	TrackCount int    `json:"track_count"`
	LengthBars int    `json:"length_bars"`
	// Skipped lists records dropped while loading.
	Skipped []string `json:"skipped,omitempty"`
}

// ClipView is the read model of a clip.
type ClipView struct {
	ID         string `json:"id"`
	TrackID    string `json:"track_id"`
	Index      int    `json:"index"`
	Start      int    `json:"start"`
	Length     int    `json:"length"`
	End        int    `json:"end"`
	AutoResize bool   `json:"auto_resize,omitempty"`
}

// TrackView is the read model of a track.
type TrackView struct {
	ID         string     `json:"id"`
	Index      int        `json:"index"`
	Kind       string     `json:"kind"`
	Muted      bool       `json:"muted"`
	LengthBars int        `json:"length_bars"`
	Clips      []ClipView `json:"clips"`
}

// ArrangementView is a snapshot of a whole container.
type ArrangementView struct {
	SessionID     string      `json:"session_id"`
	ProjectID     string      `json:"project_id"`
	ContainerType string      `json:"container_type"`
	Revision      int64       `json:"revision"`
	Modified      bool        `json:"modified"`
	LengthBars    int         `json:"length_bars"`
	Tracks        []TrackView `json:"tracks"`
}

func clipView(c *arrangement.Clip, index int) ClipView {
	return ClipView{
		ID:         c.ID(),
		TrackID:    c.Track().ID(),
		Index:      index,
		Start:      int(c.Start()),
		Length:     int(c.Length()),
		End:        int(c.End()),
		AutoResize: c.AutoResize(),
	}
}

func trackView(t *arrangement.Track, index int) TrackView {
	clips := t.Clips()
	views := make([]ClipView, 0, len(clips))
	for i, c := range clips {
		views = append(views, clipView(c, i))
	}
	return TrackView{
		ID:         t.ID(),
		Index:      index,
		Kind:       t.Kind().String(),
		Muted:      t.Muted(),
		LengthBars: t.Length(),
		Clips:      views,
	}
}
