package arrangement

// SetCurrentPosition scrolls the view to pos, clamped to zero.
func (c *Container) SetCurrentPosition(pos Ticks) {
	pos = Clamp(pos)
	if pos == c.currentPosition {
		return
	}
	c.currentPosition = pos
	c.relayout()
	c.notifyPosition()
}

// SetPixelsPerBar changes the zoom. Values below one pixel are ignored.
func (c *Container) SetPixelsPerBar(ppb float64) {
	if ppb < 1 {
		return
	}
	c.pixelsPerBar = ppb
	c.relayout()
}

// SetViewportWidth sets the visible content width in pixels.
func (c *Container) SetViewportWidth(px int) {
	c.viewportWidth = max(px, 0)
	c.relayout()
}

// SetFixedLayout switches fixed-layout mode, in which the clips of tracks
// with derived lengths always span the visible width.
func (c *Container) SetFixedLayout(fixed bool) {
	c.fixedLayout = fixed
	c.relayout()
}

// PositionAt maps a horizontal pixel offset inside the view to a position.
func (c *Container) PositionAt(x int) Ticks {
	return c.currentPosition + Ticks(float64(x)*float64(TicksPerBar)/c.pixelsPerBar)
}

// VisibleEnd returns the position at the right edge of the view.
func (c *Container) VisibleEnd() Ticks {
	return c.currentPosition + c.VisibleLength()
}

// VisibleLength returns the span of the view in ticks.
func (c *Container) VisibleLength() Ticks {
	return Ticks(float64(c.viewportWidth) * float64(TicksPerBar) / c.pixelsPerBar)
}

// Visible reports whether any part of clip lies inside the view.
func (c *Container) Visible(clip *Clip) bool {
	begin, end := c.currentPosition, c.VisibleEnd()
	s, e := clip.Start(), clip.End()
	return (s >= begin && s <= end) || (e >= begin && e <= end) || (s <= begin && e >= end)
}

func (c *Container) relayout() {
	for _, t := range c.tracks {
		c.applyDerivedLength(t)
	}
	c.updateLength()
}

// applyDerivedLength refreshes the cached length of clips whose length
// follows the visible width. The refresh is not a user edit and leaves the
// modified flag alone.
func (c *Container) applyDerivedLength(t *Track) {
	if !c.fixedLayout || !t.behavior.DerivedLength() {
		return
	}
	length := c.VisibleLength()
	for _, clip := range t.clips {
		clip.length = length
	}
}
