package arrangement

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

const (
	// DefaultPixelsPerBar is the zoom of a new container.
	DefaultPixelsPerBar = 16.0
	// DefaultViewportWidth is the visible content width, in pixels, of a new
	// container.
	DefaultViewportWidth = 640

	containerTag = "trackcontainer"
	trackTag     = "track"
)

// ErrForeignTrack indicates a track created for another container.
var ErrForeignTrack = errors.New("track belongs to another container")

// Options configures a new Container.
type Options struct {
	// Type names the view, e.g. "songeditor" or "bbeditor".
	Type          string
	FixedLayout   bool
	PixelsPerBar  float64
	ViewportWidth int
	Engine        Engine
	Changes       *ChangeTracker
	Logger        *slog.Logger
}

// Container is an ordered collection of tracks forming one arrangement view.
// It owns its tracks, which own their clips. It is not safe for concurrent
// use; all mutations are expected to come from one goroutine.
type Container struct {
	id              string
	typ             string
	tracks          []*Track
	currentPosition Ticks
	pixelsPerBar    float64
	viewportWidth   int
	fixedLayout     bool
	engine          Engine
	changes         *ChangeTracker
	logger          *slog.Logger

	positionListeners []func(Ticks)
	lengthListeners   []func(bars int)
	reorderObservers  []func(a, b *Track)
	length            int
}

// NewContainer creates an empty container.
func NewContainer(opts Options) *Container {
	c := &Container{
		id:            uuid.NewString(),
		typ:           opts.Type,
		pixelsPerBar:  opts.PixelsPerBar,
		viewportWidth: opts.ViewportWidth,
		fixedLayout:   opts.FixedLayout,
		engine:        opts.Engine,
		changes:       opts.Changes,
		logger:        opts.Logger,
	}
	if c.typ == "" {
		c.typ = "songeditor"
	}
	if c.pixelsPerBar < 1 {
		c.pixelsPerBar = DefaultPixelsPerBar
	}
	if c.viewportWidth <= 0 {
		c.viewportWidth = DefaultViewportWidth
	}
	if c.engine == nil {
		c.engine = NopEngine{}
	}
	if c.changes == nil {
		c.changes = &ChangeTracker{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	return c
}

func (c *Container) ID() string              { return c.id }
func (c *Container) Type() string            { return c.typ }
func (c *Container) FixedLayout() bool       { return c.fixedLayout }
func (c *Container) PixelsPerBar() float64   { return c.pixelsPerBar }
func (c *Container) ViewportWidth() int      { return c.viewportWidth }
func (c *Container) CurrentPosition() Ticks  { return c.currentPosition }
func (c *Container) Changes() *ChangeTracker { return c.changes }
func (c *Container) NumTracks() int          { return len(c.tracks) }
func (c *Container) Tracks() []*Track        { return slices.Clone(c.tracks) }
func (c *Container) IndexOf(t *Track) (int, bool) {
	i := slices.Index(c.tracks, t)
	return i, i >= 0
}

// TrackByID finds a track by its identifier.
func (c *Container) TrackByID(id string) (*Track, int, bool) {
	for i, t := range c.tracks {
		if t.id == id {
			return t, i, true
		}
	}
	return nil, 0, false
}

// NewTrack creates a track of kind k and appends it to the container.
func (c *Container) NewTrack(k Kind) (*Track, error) {
	b, err := NewBehavior(k)
	if err != nil {
		return nil, err
	}
	t := newTrack(c, b)
	if err := c.AddTrack(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddTrack appends t as the last track. Adding a track that is already
// present does nothing.
func (c *Container) AddTrack(t *Track) error {
	if t.container != c {
		return ErrForeignTrack
	}
	if _, ok := c.IndexOf(t); ok {
		return nil
	}
	exclusive(c.engine, func() {
		c.tracks = append(c.tracks, t)
	})
	c.changes.MarkModified()
	c.notifyPosition()
	c.clipChanged(t)
	return nil
}

// RemoveTrack removes t and discards its clips. Removing a track that is not
// in the container does nothing.
func (c *Container) RemoveTrack(t *Track) {
	i, ok := c.IndexOf(t)
	if !ok {
		return
	}
	exclusive(c.engine, func() {
		c.tracks = slices.Delete(c.tracks, i, i+1)
		t.RemoveAllClips()
		t.container = nil
	})
	c.changes.MarkModified()
	c.notifyPosition()
	c.updateLength()
}

// MoveTrackUp swaps t with the track above it. The first track stays put.
func (c *Container) MoveTrackUp(t *Track) {
	if i, ok := c.IndexOf(t); ok && i > 0 {
		c.swapTracks(i, i-1)
	}
}

// MoveTrackDown swaps t with the track below it. The last track stays put.
func (c *Container) MoveTrackDown(t *Track) {
	if i, ok := c.IndexOf(t); ok && i+1 < len(c.tracks) {
		c.swapTracks(i, i+1)
	}
}

// OnReorder registers fn to run before two tracks trade places.
func (c *Container) OnReorder(fn func(a, b *Track)) {
	c.reorderObservers = append(c.reorderObservers, fn)
}

// OnPositionChanged registers fn to run when the visible position or the
// track order changes.
func (c *Container) OnPositionChanged(fn func(Ticks)) {
	c.positionListeners = append(c.positionListeners, fn)
}

// OnLengthChanged registers fn to run when the arrangement length, in bars,
// changes.
func (c *Container) OnLengthChanged(fn func(bars int)) {
	c.lengthListeners = append(c.lengthListeners, fn)
}

func (c *Container) swapTracks(i, j int) {
	a, b := c.tracks[i], c.tracks[j]
	if p, ok := a.behavior.(PairedOrder); ok {
		p.SwapOrder(b.behavior)
	} else if p, ok := b.behavior.(PairedOrder); ok {
		p.SwapOrder(a.behavior)
	}
	for _, fn := range c.reorderObservers {
		fn(a, b)
	}
	exclusive(c.engine, func() {
		c.tracks[i], c.tracks[j] = b, a
	})
	c.changes.MarkModified()
	c.notifyPosition()
}

// SetMutedOfAllTracks sets the mute flag of every track.
func (c *Container) SetMutedOfAllTracks(muted bool) {
	for _, t := range c.tracks {
		t.SetMuted(muted)
	}
}

// Solo mutes every track except t.
func (c *Container) Solo(t *Track) error {
	if _, ok := c.IndexOf(t); !ok {
		return ErrNotInContainer
	}
	c.SetMutedOfAllTracks(true)
	t.SetMuted(false)
	return nil
}

// ToggleSolo gives every track the current mute state of t and then inverts
// t. On a muted track this solos it; on an unmuted one every other track is
// unmuted and t is muted.
func (c *Container) ToggleSolo(t *Track) error {
	if _, ok := c.IndexOf(t); !ok {
		return ErrNotInContainer
	}
	m := t.Muted()
	c.SetMutedOfAllTracks(m)
	t.SetMuted(!m)
	return nil
}

// CountTracks counts the tracks of kind k, or all tracks for AllKinds.
func (c *Container) CountTracks(k Kind) int {
	n := 0
	for _, t := range c.tracks {
		if k == AllKinds || t.Kind() == k {
			n++
		}
	}
	return n
}

// Length returns the arrangement length in bars, derived from the longest
// track.
func (c *Container) Length() int {
	n := 0
	for _, t := range c.tracks {
		n = max(n, t.Length())
	}
	return n
}

// InsertBar inserts one bar at the given position on every track.
func (c *Container) InsertBar(at Ticks) {
	for _, t := range c.tracks {
		t.InsertBar(at)
	}
}

// RemoveBar removes one bar at the given position on every track.
func (c *Container) RemoveBar(at Ticks) {
	for _, t := range c.tracks {
		t.RemoveBar(at)
	}
}

func (c *Container) changeTracker() *ChangeTracker {
	if c == nil {
		return nil
	}
	return c.changes
}

func (c *Container) log() *slog.Logger {
	if c == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// clipChanged runs after any clip of t moved, resized, appeared or
// disappeared.
func (c *Container) clipChanged(t *Track) {
	if c == nil {
		return
	}
	c.applyDerivedLength(t)
	c.updateLength()
}

func (c *Container) updateLength() {
	n := c.Length()
	if n == c.length {
		return
	}
	c.length = n
	for _, fn := range c.lengthListeners {
		fn(n)
	}
}

func (c *Container) notifyPosition() {
	for _, fn := range c.positionListeners {
		fn(c.currentPosition)
	}
}
