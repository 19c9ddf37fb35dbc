package arrangement

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/rpggio/arranger/internal/document"
)

// Track is an ordered collection of clips with a fixed kind and a mute flag.
// Storage order is insertion order, not position order; ClipsInRange sorts.
type Track struct {
	id        string
	container *Container
	behavior  Behavior
	muted     bool
	clips     []*Clip
}

func newTrack(tc *Container, b Behavior) *Track {
	return &Track{
		id:        uuid.NewString(),
		container: tc,
		behavior:  b,
	}
}

func (t *Track) ID() string              { return t.id }
func (t *Track) Kind() Kind              { return t.behavior.Kind() }
func (t *Track) Behavior() Behavior      { return t.behavior }
func (t *Track) Container() *Container   { return t.container }
func (t *Track) Muted() bool             { return t.muted }
func (t *Track) NumClips() int           { return len(t.clips) }
func (t *Track) Clips() []*Clip          { return slices.Clone(t.clips) }
func (t *Track) changes() *ChangeTracker { return t.container.changeTracker() }

func (t *Track) SetMuted(muted bool) {
	if muted != t.muted {
		t.changes().MarkModified()
	}
	t.muted = muted
}

// CreateClip returns a new clip of this track's kind at the given position.
// The clip is bound to the track but not inserted; use AddClip for that.
func (t *Track) CreateClip(at Ticks) *Clip {
	c := newClip(t.behavior, at)
	c.track = t
	return c
}

// AddClip appends c and returns its index. The clip must be of this track's
// kind and must not be stored on another track.
func (t *Track) AddClip(c *Clip) (int, error) {
	if c.kind != t.Kind() {
		return 0, fmt.Errorf("add %s clip to %s track: %w", c.kind, t.Kind(), ErrKindMismatch)
	}
	if c.track != nil && c.track != t {
		return 0, ErrClipAttached
	}
	if _, ok := t.IndexOf(c); ok {
		return 0, ErrClipAttached
	}
	c.track = t
	t.clips = append(t.clips, c)
	t.changes().MarkModified()
	t.clipChanged(c)
	return len(t.clips) - 1, nil
}

// Clip returns the clip at index i.
func (t *Track) Clip(i int) (*Clip, error) {
	if err := t.checkIndex(i); err != nil {
		return nil, err
	}
	return t.clips[i], nil
}

// ClipOrCreate returns the clip at index i, or appends a fresh clip at bar i
// when the index does not exist. Callers that expect the clip to exist
// should use Clip.
func (t *Track) ClipOrCreate(i int) *Clip {
	if c, err := t.Clip(i); err == nil {
		return c
	}
	c := t.CreateClip(Ticks(max(i, 0)) * TicksPerBar)
	if _, err := t.AddClip(c); err != nil {
		// A clip fresh from CreateClip has this track's kind and no other owner.
		panic(err)
	}
	return c
}

// ClipByID finds a clip by its identifier.
func (t *Track) ClipByID(id string) (*Clip, int, bool) {
	for i, c := range t.clips {
		if c.id == id {
			return c, i, true
		}
	}
	return nil, 0, false
}

func (t *Track) IndexOf(c *Clip) (int, bool) {
	i := slices.Index(t.clips, c)
	return i, i >= 0
}

// RemoveClip removes the clip at index i. With destroy the clip is discarded
// and nil is returned; otherwise it is detached and handed to the caller.
func (t *Track) RemoveClip(i int, destroy bool) (*Clip, error) {
	if err := t.checkIndex(i); err != nil {
		return nil, err
	}
	c := t.clips[i]
	t.clips = slices.Delete(t.clips, i, i+1)
	c.track = nil
	c.gesture = gesture{}
	t.changes().MarkModified()
	t.container.clipChanged(t)
	if destroy {
		return nil, nil
	}
	return c, nil
}

// RemoveAllClips discards every clip.
func (t *Track) RemoveAllClips() {
	if len(t.clips) == 0 {
		return
	}
	for _, c := range t.clips {
		c.track = nil
	}
	t.clips = nil
	t.changes().MarkModified()
	t.container.clipChanged(t)
}

// SwapClipPositions exchanges the slots and the start positions of the clips
// at i and j. Length and payload stay with their clip. Applying it twice
// restores the original state.
func (t *Track) SwapClipPositions(i, j int) error {
	if err := t.checkIndex(i); err != nil {
		return err
	}
	if err := t.checkIndex(j); err != nil {
		return err
	}
	t.clips[i], t.clips[j] = t.clips[j], t.clips[i]
	pos := t.clips[i].start
	t.clips[i].Move(t.clips[j].start)
	t.clips[j].Move(pos)
	return nil
}

// Length returns the number of bars needed to reach the end of the last
// clip.
func (t *Track) Length() int {
	var last Ticks
	for _, c := range t.clips {
		last = max(last, c.End())
	}
	return last.Bars()
}

// InsertBar shifts every clip starting at or after at one bar forward.
// Clips starting earlier are left alone even if they extend past at.
func (t *Track) InsertBar(at Ticks) {
	for _, c := range t.clips {
		if c.start >= at {
			c.Move(c.start + TicksPerBar)
		}
	}
}

// RemoveBar shifts every clip starting at or after at one bar back, clamped
// to zero. Clips already near zero lose their offset, so RemoveBar does not
// always undo InsertBar.
func (t *Track) RemoveBar(at Ticks) {
	for _, c := range t.clips {
		if c.start >= at {
			c.Move(c.start - TicksPerBar)
		}
	}
}

// ClipsInRange returns the clips overlapping [start, end], both ends
// inclusive, ordered by start position. Clips starting at the same position
// keep their storage order.
func (t *Track) ClipsInRange(start, end Ticks) []*Clip {
	var ret []*Clip
	for _, c := range t.clips {
		if c.start <= end && c.End() >= start {
			ret = append(ret, c)
		}
	}
	slices.SortStableFunc(ret, func(a, b *Clip) int {
		return cmp.Compare(a.start, b.start)
	})
	return ret
}

// Save appends the track record to parent: kind and mute flag, the
// kind-specific settings record, then every clip in storage order.
func (t *Track) Save(parent *document.Node) *document.Node {
	n := parent.AddChild(trackTag)
	n.Set("id", t.id)
	n.SetInt("type", int(t.Kind()))
	n.SetBool("muted", t.muted)
	t.behavior.SaveSettings(n.AddChild(t.behavior.NodeName()))
	for _, c := range t.clips {
		c.Save(n)
	}
	return n
}

// Load replaces the track state with the record n. A record claiming another
// kind is loaded as this track's kind after logging a warning; settings and
// clip records belonging to another kind are skipped. The track is left
// untouched when the record cannot be loaded.
func (t *Track) Load(n *document.Node) error {
	if typ, err := n.Int("type"); err != nil || Kind(typ) != t.Kind() {
		t.logger().Warn("track type does not match record, loading as own kind",
			"track_id", t.id, "kind", t.Kind().String(), "record_type", n.String("type"))
	}
	muted, err := n.Bool("muted")
	if err != nil {
		return fmt.Errorf("loading track: %w", err)
	}

	behavior := t.behavior.Clone()
	var clips []*Clip
	for i, child := range n.Children {
		switch child.Tag {
		case behavior.NodeName():
			if err := behavior.LoadSettings(child); err != nil {
				return fmt.Errorf("loading %s settings: %w", child.Tag, err)
			}
		case behavior.ClipTag():
			c := newClip(behavior, 0)
			if err := c.Load(child); err != nil {
				return fmt.Errorf("loading clip record %d: %w", i, err)
			}
			clips = append(clips, c)
		default:
			k, ok := kindOfTag(child.Tag)
			if !ok {
				return fmt.Errorf("loading track record %d: %q: %w", i, child.Tag, ErrUnexpectedRecord)
			}
			t.logger().Warn("skipping record of another track kind",
				"track_id", t.id, "kind", t.Kind().String(), "record", child.Tag, "record_kind", k.String())
		}
	}

	t.RemoveAllClips()
	t.behavior = behavior
	t.SetMuted(muted)
	if id := n.String("id"); id != "" {
		t.id = id
	}
	for i, c := range clips {
		if _, err := t.AddClip(c); err != nil {
			return fmt.Errorf("adding clip record %d: %w", i, err)
		}
	}
	return nil
}

func (t *Track) checkIndex(i int) error {
	if i < 0 || i >= len(t.clips) {
		return &IndexError{TrackID: t.id, Index: i, Len: len(t.clips)}
	}
	return nil
}

func (t *Track) clipChanged(*Clip) {
	t.container.clipChanged(t)
}

func (t *Track) logger() *slog.Logger {
	return t.container.log()
}
