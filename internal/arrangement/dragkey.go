package arrangement

import (
	"strconv"
	"strings"

	"github.com/rpggio/arranger/internal/document"
)

const (
	clipKeyPrefix  = "clip_"
	trackKeyPrefix = "track_"
)

// ClipKey is the drag-and-drop and clipboard tag of clip records of kind k.
func ClipKey(k Kind) string { return clipKeyPrefix + strconv.Itoa(int(k)) }

// TrackKey is the drag-and-drop and clipboard tag of track records of kind k.
func TrackKey(k Kind) string { return trackKeyPrefix + strconv.Itoa(int(k)) }

// Accepts reports whether a record tagged tag may be dropped onto a slot of
// kind target.
func Accepts(tag string, target Kind) bool {
	return target.Valid() && (tag == ClipKey(target) || tag == TrackKey(target))
}

// parseTrackKey returns the kind named by a track tag.
func parseTrackKey(tag string) (Kind, bool) {
	rest, ok := strings.CutPrefix(tag, trackKeyPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || !Kind(n).Valid() {
		return 0, false
	}
	return Kind(n), true
}

// AcceptsClip reports whether a clip record tagged tag may be dropped onto t.
// Fixed-layout containers refuse clip drops.
func (t *Track) AcceptsClip(tag string) bool {
	if t.container != nil && t.container.fixedLayout {
		return false
	}
	return tag == ClipKey(t.Kind())
}

// DropClip creates a clip from a dropped record and places it at pos.
func (t *Track) DropClip(tag string, rec *document.Node, pos Ticks) (*Clip, error) {
	if !t.AcceptsClip(tag) {
		return nil, ErrKindMismatch
	}
	rec = rec.Clone()
	stripIDs(rec)
	c := t.CreateClip(pos)
	if err := c.Load(rec); err != nil {
		return nil, err
	}
	if _, err := t.AddClip(c); err != nil {
		return nil, err
	}
	c.Move(pos)
	return c, nil
}

// AcceptsTrack reports whether a track record tagged tag may be dropped onto
// the container.
func (c *Container) AcceptsTrack(tag string) bool {
	_, ok := parseTrackKey(tag)
	return ok
}

// DropTrack creates a track from a dropped record.
func (c *Container) DropTrack(tag string, rec *document.Node) (*Track, error) {
	if !c.AcceptsTrack(tag) {
		return nil, ErrKindMismatch
	}
	rec = rec.Clone()
	stripIDs(rec)
	return c.LoadTrack(rec)
}
