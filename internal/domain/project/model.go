package project

import "time"

// Project is a stored arrangement together with its revision counter.
// Revision grows by one with every save and guards against concurrent
// writers.
type Project struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	ContainerType string     `json:"container_type"`
	Revision      int64      `json:"revision"`
	TrackCount    int        `json:"track_count"`
	LengthBars    int        `json:"length_bars"`
	CreatedAt     time.Time  `json:"created_at"`
	SavedAt       *time.Time `json:"saved_at,omitempty"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	ContainerType string     `json:"container_type"`
	Revision      int64      `json:"revision"`
	TrackCount    int        `json:"track_count"`
	LengthBars    int        `json:"length_bars"`
	CreatedAt     time.Time  `json:"created_at"`
	SavedAt       *time.Time `json:"saved_at,omitempty"`
}

// Document is an encoded arrangement plus the figures shown in listings.
type Document struct {
	Data       []byte
	TrackCount int
	LengthBars int
}
