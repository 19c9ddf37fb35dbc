package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTrackNotFound indicates the target track doesn't exist in the session.
	ErrTrackNotFound = errors.New("track not found")
	// ErrClipNotFound indicates the target clip doesn't exist on the track.
	ErrClipNotFound = errors.New("clip not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
	// ErrUnsavedChanges indicates a close request for a modified arrangement.
	ErrUnsavedChanges = errors.New("session has unsaved changes")
	// ErrLoadIncomplete indicates the arrangement did not finish loading.
	ErrLoadIncomplete = errors.New("arrangement load incomplete")
)
