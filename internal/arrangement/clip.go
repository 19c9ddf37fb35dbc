package arrangement

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rpggio/arranger/internal/document"
)

// Clip is a placed, bounded span of content on one track. The track owns the
// clip; the clip's track pointer is only a back-reference and is nil while
// the clip is detached.
type Clip struct {
	id         string
	kind       Kind
	tag        string
	track      *Track
	start      Ticks
	length     Ticks
	autoResize bool
	payload    ClipPayload
	gesture    gesture
}

func newClip(b Behavior, at Ticks) *Clip {
	return &Clip{
		id:      uuid.NewString(),
		kind:    b.Kind(),
		tag:     b.ClipTag(),
		start:   Clamp(at),
		payload: b.NewClipPayload(),
	}
}

func (c *Clip) ID() string           { return c.id }
func (c *Clip) Kind() Kind           { return c.kind }
func (c *Clip) Track() *Track        { return c.track }
func (c *Clip) Start() Ticks         { return c.start }
func (c *Clip) Length() Ticks        { return c.length }
func (c *Clip) Payload() ClipPayload { return c.payload }
func (c *Clip) AutoResize() bool     { return c.autoResize }

// End is always derived from start and length.
func (c *Clip) End() Ticks { return c.start + c.length }

// SetAutoResize marks the clip as sized by its content; manual resizes are
// ignored while it is set.
func (c *Clip) SetAutoResize(enabled bool) {
	c.autoResize = enabled
}

// Move places the clip at pos, clamped to zero.
func (c *Clip) Move(pos Ticks) {
	pos = Clamp(pos)
	if pos != c.start {
		c.changes().MarkModified()
	}
	c.start = pos
	c.notify()
}

// Resize sets the clip length, clamped to zero. It does nothing for
// auto-resizing clips and for clips whose length the container derives from
// its visible width.
func (c *Clip) Resize(length Ticks) {
	if c.autoResize || c.derivedLength() {
		return
	}
	c.setLength(Clamp(length))
}

func (c *Clip) setLength(length Ticks) {
	if length != c.length {
		c.changes().MarkModified()
	}
	c.length = length
	c.notify()
}

// Clone copies the clip, payload included, onto dst and returns the copy.
func (c *Clip) Clone(dst *Track) (*Clip, error) {
	if dst.Kind() != c.kind {
		return nil, fmt.Errorf("clone %s clip onto %s track: %w", c.kind, dst.Kind(), ErrKindMismatch)
	}
	cp := &Clip{
		id:         uuid.NewString(),
		kind:       c.kind,
		tag:        c.tag,
		start:      c.start,
		length:     c.length,
		autoResize: c.autoResize,
		payload:    c.payload.Clone(),
	}
	if _, err := dst.AddClip(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// Save appends the clip record to parent.
func (c *Clip) Save(parent *document.Node) *document.Node {
	n := parent.AddChild(c.tag)
	n.Set("id", c.id)
	n.SetInt("pos", int(c.start))
	n.SetInt("len", int(c.length))
	n.SetBool("autoresize", c.autoResize)
	c.payload.Save(n)
	return n
}

// Load restores the clip from its record. A record of another kind's clip
// is refused: its payload would be reinterpreted under the wrong type.
func (c *Clip) Load(n *document.Node) error {
	if n.Tag != c.tag {
		return fmt.Errorf("load %q record into %s clip: %w", n.Tag, c.kind, ErrKindMismatch)
	}
	pos, err := n.Int("pos")
	if err != nil {
		return fmt.Errorf("loading clip: %w", err)
	}
	length, err := n.IntOr("len", 0)
	if err != nil {
		return fmt.Errorf("loading clip: %w", err)
	}
	auto, err := n.Bool("autoresize")
	if err != nil {
		return fmt.Errorf("loading clip: %w", err)
	}
	if err := c.payload.Load(n); err != nil {
		return fmt.Errorf("loading clip payload: %w", err)
	}
	if id := n.String("id"); id != "" {
		c.id = id
	}
	c.start, c.length, c.autoResize = Clamp(Ticks(pos)), Clamp(Ticks(length)), auto
	c.notify()
	return nil
}

func (c *Clip) container() *Container {
	if c.track == nil {
		return nil
	}
	return c.track.container
}

func (c *Clip) changes() *ChangeTracker {
	if tc := c.container(); tc != nil {
		return tc.changes
	}
	return nil
}

func (c *Clip) derivedLength() bool {
	tc := c.container()
	return tc != nil && tc.fixedLayout && c.track.behavior.DerivedLength()
}

func (c *Clip) notify() {
	if c.track != nil {
		c.track.clipChanged(c)
	}
}
