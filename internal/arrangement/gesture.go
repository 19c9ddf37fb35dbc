package arrangement

// GestureState is the interaction mode of a clip. Moving and resizing are
// mutually exclusive; the state only keeps gesture bookkeeping and never
// buffers changes.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureMoving
	GestureResizing
)

func (s GestureState) String() string {
	switch s {
	case GestureMoving:
		return "moving"
	case GestureResizing:
		return "resizing"
	}
	return "idle"
}

type gesture struct {
	state  GestureState
	start  Ticks
	length Ticks
}

func (c *Clip) Gesture() GestureState { return c.gesture.state }

// BeginMove captures the current position as the baseline for DragTo.
func (c *Clip) BeginMove() error {
	if err := c.canBegin(); err != nil {
		return err
	}
	c.gesture = gesture{state: GestureMoving, start: c.start, length: c.length}
	return nil
}

// BeginResize captures the current length as the baseline for DragTo.
func (c *Clip) BeginResize() error {
	if err := c.canBegin(); err != nil {
		return err
	}
	if c.autoResize {
		return ErrAutoResize
	}
	c.gesture = gesture{state: GestureResizing, start: c.start, length: c.length}
	return nil
}

// DragTo applies delta to the baseline captured when the gesture began.
// Dragged resizes never go below one bar.
func (c *Clip) DragTo(delta Ticks) error {
	switch c.gesture.state {
	case GestureMoving:
		c.Move(c.gesture.start + delta)
	case GestureResizing:
		c.Resize(max(TicksPerBar, c.gesture.length+delta))
	default:
		return ErrNoGesture
	}
	return nil
}

// EndGesture returns to idle. Whatever the last DragTo applied stays.
func (c *Clip) EndGesture() {
	c.gesture = gesture{}
}

func (c *Clip) canBegin() error {
	if c.gesture.state != GestureIdle {
		return ErrGestureActive
	}
	if tc := c.container(); tc != nil && tc.fixedLayout {
		return ErrFixedLayout
	}
	return nil
}
