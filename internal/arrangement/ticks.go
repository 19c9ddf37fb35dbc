package arrangement

import "fmt"

// TicksPerBar is the resolution of the time axis: one bar ("tact") is 64
// ticks.
const TicksPerBar Ticks = 64

// Ticks is a position or length on the arrangement's time axis.
type Ticks int

// Bar returns the zero-based bar the position falls in.
func (t Ticks) Bar() int { return int(t / TicksPerBar) }

// Subtick returns the offset of the position inside its bar.
func (t Ticks) Subtick() int { return int(t % TicksPerBar) }

// Bars returns the number of bars needed to cover t ticks, rounding up.
func (t Ticks) Bars() int {
	if t <= 0 {
		return 0
	}
	return int((t + TicksPerBar - 1) / TicksPerBar)
}

// String renders the position as "bar:subtick" with a one-based bar, the way
// positions are shown to users.
func (t Ticks) String() string {
	return fmt.Sprintf("%d:%d", t.Bar()+1, t.Subtick())
}

// Clamp returns t, or 0 if t is negative. Negative positions may appear
// while computing but are never stored.
func Clamp(t Ticks) Ticks {
	return max(t, 0)
}
