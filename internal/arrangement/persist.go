package arrangement

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/arranger/internal/document"
)

// ErrUnexpectedRecord indicates a record with the wrong tag for its place in
// the document.
var ErrUnexpectedRecord = errors.New("unexpected record")

// Save returns the container record: its type followed by every track in
// display order.
func (c *Container) Save() *document.Node {
	n := document.New(containerTag)
	n.Set("type", c.typ)
	for _, t := range c.tracks {
		t.Save(n)
	}
	return n
}

// Load appends the tracks described by n. Cancellation is checked before
// every track record; a cancelled load keeps the tracks loaded so far and
// reports through sess.Err rather than the returned error. A track record
// that cannot be loaded is recorded in sess.Failures and skipped.
func (c *Container) Load(ctx context.Context, n *document.Node, sess *LoadSession) error {
	if n.Tag != containerTag {
		return fmt.Errorf("load %q as %s: %w", n.Tag, containerTag, ErrUnexpectedRecord)
	}
	if typ := n.String("type"); typ != "" && typ != c.typ {
		c.logger.Warn("container type does not match record", "type", c.typ, "record_type", typ)
	}
	if sess == nil {
		sess = NewLoadSession(nil)
	}

	sess.grow(len(n.Children))

	for i, child := range n.Children {
		if !sess.step(ctx) {
			c.logger.Info("load cancelled", "container_id", c.id, "loaded", i, "records", len(n.Children))
			return nil
		}
		if _, err := c.LoadTrack(child); err != nil {
			rerr := &RecordError{Index: i, Tag: child.Tag, Err: err}
			sess.fail(rerr)
			c.logger.Warn("skipping track record", "container_id", c.id, "error", rerr)
		}
	}
	return nil
}

// LoadTrack creates a track from its record, using the record's type to pick
// the kind, and appends it.
func (c *Container) LoadTrack(n *document.Node) (*Track, error) {
	if n.Tag != trackTag {
		return nil, fmt.Errorf("load %q as %s: %w", n.Tag, trackTag, ErrUnexpectedRecord)
	}
	typ, err := n.Int("type")
	if err != nil {
		return nil, err
	}
	t, err := c.NewTrack(Kind(typ))
	if err != nil {
		return nil, err
	}
	if err := t.Load(n); err != nil {
		c.RemoveTrack(t)
		return nil, err
	}
	return t, nil
}

// CloneTrack copies t, clips included, into a new track appended to the
// container. The copy gets fresh identifiers.
func (c *Container) CloneTrack(t *Track) (*Track, error) {
	if _, ok := c.IndexOf(t); !ok {
		return nil, ErrNotInContainer
	}
	rec := t.Save(document.New("clone"))
	stripIDs(rec)
	return c.LoadTrack(rec)
}

func stripIDs(n *document.Node) {
	delete(n.Attrs, "id")
	for _, child := range n.Children {
		stripIDs(child)
	}
}
