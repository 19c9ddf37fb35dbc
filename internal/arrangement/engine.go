package arrangement

// Engine is the audio engine reading tracks and clips concurrently with the
// model. Structural mutations are bracketed by Pause and Resume so engine
// consumption and structural changes never interleave.
type Engine interface {
	Pause()
	Resume()
}

// NopEngine is used when no engine is attached.
type NopEngine struct{}

func (NopEngine) Pause()  {}
func (NopEngine) Resume() {}

// exclusive pauses e, runs fn and resumes e even if fn panics.
func exclusive(e Engine, fn func()) {
	e.Pause()
	defer e.Resume()
	fn()
}
