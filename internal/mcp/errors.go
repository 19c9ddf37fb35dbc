package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/domain/activity"
	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/domain/session"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for errors
// it does not know.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid ids"}
	case errors.Is(err, project.ErrProjectExists):
		return &APIError{Code: "PROJECT_EXISTS", Message: "project id already in use", RecoveryHint: "Omit id to generate one"}
	case errors.Is(err, project.ErrRevisionConflict):
		return &APIError{Code: "REVISION_CONFLICT", Message: "project saved by another session", RecoveryHint: "Close with discard=true, reopen and reapply edits"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Call open_session"}
	case errors.Is(err, session.ErrTrackNotFound):
		return &APIError{Code: "TRACK_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call get_arrangement for track ids"}
	case errors.Is(err, session.ErrClipNotFound):
		return &APIError{Code: "CLIP_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call get_arrangement for clip ids"}
	case errors.Is(err, session.ErrUnsavedChanges):
		return &APIError{Code: "UNSAVED_CHANGES", Message: "session has unsaved changes", RecoveryHint: "Call save_session or close with discard=true"}
	case errors.Is(err, session.ErrLoadIncomplete):
		return &APIError{Code: "LOAD_INCOMPLETE", Message: err.Error(), RecoveryHint: "Retry open_session"}
	case errors.Is(err, arrangement.ErrUnknownKind):
		return &APIError{Code: "UNKNOWN_KIND", Message: err.Error(), RecoveryHint: "Use melodic, beatbassline or sample"}
	case errors.Is(err, arrangement.ErrOutOfRange):
		return &APIError{Code: "CLIP_INDEX_OUT_OF_RANGE", Message: err.Error()}
	case errors.Is(err, arrangement.ErrKindMismatch):
		return &APIError{Code: "KIND_MISMATCH", Message: err.Error()}
	case errors.Is(err, arrangement.ErrFixedLayout):
		return &APIError{Code: "FIXED_LAYOUT", Message: "clip length follows the container"}
	case errors.Is(err, arrangement.ErrAutoResize):
		return &APIError{Code: "AUTO_RESIZE", Message: "clip length follows its content"}
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
