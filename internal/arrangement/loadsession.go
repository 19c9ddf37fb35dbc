package arrangement

import (
	"context"
	"fmt"
)

// LoadSession carries progress, cancellation and per-record failures through
// one top-level load. Nested loads share the session of the outermost call
// and extend its step count instead of starting their own.
type LoadSession struct {
	total    int
	done     int
	progress func(done, total int)
	err      error
	failures []*RecordError
}

// NewLoadSession returns a session reporting to progress, which may be nil.
func NewLoadSession(progress func(done, total int)) *LoadSession {
	return &LoadSession{progress: progress}
}

func (s *LoadSession) Total() int { return s.total }
func (s *LoadSession) Done() int  { return s.done }

// Failures lists the records that could not be loaded.
func (s *LoadSession) Failures() []*RecordError { return s.failures }

// Err returns a wrapped ErrLoadCancelled once the load was cancelled.
func (s *LoadSession) Err() error { return s.err }

func (s *LoadSession) Cancelled() bool { return s.err != nil }

// Cancel stops the load before the next record is processed.
func (s *LoadSession) Cancel() {
	if s.err == nil {
		s.err = ErrLoadCancelled
	}
}

// grow adds n steps to the total. Steps are only ever added, so a load
// started while another is running extends the same count.
func (s *LoadSession) grow(n int) {
	s.total += n
	s.report()
}

// step checks for cancellation and advances one step. It returns false when
// the remaining records must be skipped.
func (s *LoadSession) step(ctx context.Context) bool {
	if s.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		s.err = fmt.Errorf("%w: %w", ErrLoadCancelled, err)
		return false
	}
	s.done++
	s.report()
	return true
}

func (s *LoadSession) fail(e *RecordError) {
	s.failures = append(s.failures, e)
}

func (s *LoadSession) report() {
	if s.progress != nil {
		s.progress(s.done, s.total)
	}
}
