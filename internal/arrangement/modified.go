package arrangement

// ChangeTracker holds the project-modified flag. It is owned by whoever owns
// the project (an editing session, a test) and handed to containers
// explicitly. Every mutator sets it; only a completed save or load clears it.
type ChangeTracker struct {
	modified bool
	changes  int
}

func (c *ChangeTracker) MarkModified() {
	if c == nil {
		return
	}
	c.modified = true
	c.changes++
}

func (c *ChangeTracker) Modified() bool {
	return c != nil && c.modified
}

// Changes returns how many times the flag was set since creation.
func (c *ChangeTracker) Changes() int {
	if c == nil {
		return 0
	}
	return c.changes
}

func (c *ChangeTracker) ClearModified() {
	if c == nil {
		return
	}
	c.modified = false
}
