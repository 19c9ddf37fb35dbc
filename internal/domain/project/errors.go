package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrRevisionConflict indicates the project was saved by someone else
	// since it was loaded.
	ErrRevisionConflict = errors.New("project saved by another session")
	// ErrProjectExists indicates a project ID that is already taken.
	ErrProjectExists = errors.New("project already exists")
)
