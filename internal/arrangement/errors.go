package arrangement

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a clip index that does not exist on a track.
	ErrOutOfRange = errors.New("clip index out of range")
	// ErrUnknownKind indicates a track kind outside the closed kind set.
	ErrUnknownKind = errors.New("unknown track kind")
	// ErrKindMismatch indicates a record or clip of another kind than its destination.
	ErrKindMismatch = errors.New("track kind mismatch")
	// ErrLoadCancelled indicates a load stopped before processing every record.
	ErrLoadCancelled = errors.New("load cancelled")
	// ErrGestureActive indicates a move or resize gesture is already running.
	ErrGestureActive = errors.New("gesture already active")
	// ErrNoGesture indicates a drag without a running gesture.
	ErrNoGesture = errors.New("no active gesture")
	// ErrFixedLayout indicates a manual edit refused by a fixed-layout container.
	ErrFixedLayout = errors.New("container uses fixed layout")
	// ErrAutoResize indicates a manual resize of an auto-resizing clip.
	ErrAutoResize = errors.New("clip resizes automatically")
	// ErrClipAttached indicates a clip that already belongs to a track.
	ErrClipAttached = errors.New("clip already attached")
	// ErrNotInContainer indicates a track that is not part of the container.
	ErrNotInContainer = errors.New("track not in container")
)

// IndexError reports an out-of-range clip index together with the track it
// was addressed on.
type IndexError struct {
	TrackID string
	Index   int
	Len     int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("track %s: clip %d of %d: %v", e.TrackID, e.Index, e.Len, ErrOutOfRange)
}

func (e *IndexError) Unwrap() error { return ErrOutOfRange }

// KindError reports the offending kind value.
type KindError struct {
	Kind Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("kind %d: %v", int(e.Kind), ErrUnknownKind)
}

func (e *KindError) Unwrap() error { return ErrUnknownKind }

// RecordError reports a child record of a container document that could not
// be turned into a track.
type RecordError struct {
	Index int
	Tag   string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", e.Index, e.Tag, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
