package arrangement

import (
	"fmt"

	"github.com/rpggio/arranger/internal/document"
)

// DefaultVolume is the volume of newly created instruments and samplers.
const DefaultVolume = 100

// Instrument is the settings of a melodic track.
type Instrument struct {
	Name    string
	Volume  int
	Panning int
}

func (i *Instrument) Kind() Kind          { return KindMelodic }
func (i *Instrument) NodeName() string    { return "channeltrack" }
func (i *Instrument) ClipTag() string     { return "pattern" }
func (i *Instrument) DerivedLength() bool { return false }

func (i *Instrument) NewClipPayload() ClipPayload {
	return &Pattern{}
}

func (i *Instrument) SaveSettings(n *document.Node) {
	n.Set("name", i.Name)
	n.SetInt("vol", i.Volume)
	n.SetInt("pan", i.Panning)
}

func (i *Instrument) LoadSettings(n *document.Node) error {
	vol, err := n.IntOr("vol", DefaultVolume)
	if err != nil {
		return err
	}
	pan, err := n.IntOr("pan", 0)
	if err != nil {
		return err
	}
	i.Name, i.Volume, i.Panning = n.String("name"), vol, pan
	return nil
}

func (i *Instrument) Clone() Behavior {
	c := *i
	return &c
}

// Note is a single note inside a pattern, positioned relative to the
// pattern start.
type Note struct {
	Pos    Ticks
	Length Ticks
	Key    int
	Volume int
}

// Pattern is the clip payload of melodic tracks.
type Pattern struct {
	Name  string
	Notes []Note
}

func (p *Pattern) Clone() ClipPayload {
	var notes []Note
	if len(p.Notes) > 0 {
		notes = append(notes, p.Notes...)
	}
	return &Pattern{Name: p.Name, Notes: notes}
}

func (p *Pattern) Save(n *document.Node) {
	n.Set("name", p.Name)
	for _, note := range p.Notes {
		nn := n.AddChild("note")
		nn.SetInt("pos", int(note.Pos))
		nn.SetInt("len", int(note.Length))
		nn.SetInt("key", note.Key)
		nn.SetInt("vol", note.Volume)
	}
}

func (p *Pattern) Load(n *document.Node) error {
	p.Name = n.String("name")
	p.Notes = nil
	for _, c := range n.Children {
		if c.Tag != "note" {
			continue
		}
		var note Note
		pos, err := c.Int("pos")
		if err != nil {
			return fmt.Errorf("loading note: %w", err)
		}
		length, err := c.IntOr("len", 0)
		if err != nil {
			return fmt.Errorf("loading note: %w", err)
		}
		key, err := c.Int("key")
		if err != nil {
			return fmt.Errorf("loading note: %w", err)
		}
		vol, err := c.IntOr("vol", DefaultVolume)
		if err != nil {
			return fmt.Errorf("loading note: %w", err)
		}
		note.Pos, note.Length, note.Key, note.Volume = Ticks(pos), Ticks(length), key, vol
		p.Notes = append(p.Notes, note)
	}
	return nil
}

// BeatBassline is the settings of a beat/bassline track. Index is the
// column of the pattern editor the track plays; it follows the track when
// tracks are reordered.
type BeatBassline struct {
	Index int
}

func (b *BeatBassline) Kind() Kind          { return KindBeatBassline }
func (b *BeatBassline) NodeName() string    { return "bbtrack" }
func (b *BeatBassline) ClipTag() string     { return "bbclip" }
func (b *BeatBassline) DerivedLength() bool { return true }

func (b *BeatBassline) NewClipPayload() ClipPayload {
	return &BeatBasslineClip{}
}

func (b *BeatBassline) SaveSettings(n *document.Node) {
	n.SetInt("index", b.Index)
}

func (b *BeatBassline) LoadSettings(n *document.Node) error {
	idx, err := n.IntOr("index", 0)
	if err != nil {
		return err
	}
	b.Index = idx
	return nil
}

func (b *BeatBassline) Clone() Behavior {
	c := *b
	return &c
}

// SwapOrder exchanges pattern-editor columns with another beat/bassline
// track so both orderings stay aligned.
func (b *BeatBassline) SwapOrder(other Behavior) {
	if o, ok := other.(*BeatBassline); ok {
		b.Index, o.Index = o.Index, b.Index
	}
}

// BeatBasslineClip is the clip payload of beat/bassline tracks.
type BeatBasslineClip struct {
	Name  string
	Color string
}

func (c *BeatBasslineClip) Clone() ClipPayload {
	cp := *c
	return &cp
}

func (c *BeatBasslineClip) Save(n *document.Node) {
	n.Set("name", c.Name)
	if c.Color != "" {
		n.Set("color", c.Color)
	}
}

func (c *BeatBasslineClip) Load(n *document.Node) error {
	c.Name, c.Color = n.String("name"), n.String("color")
	return nil
}

// Sampler is the settings of a sample track.
type Sampler struct {
	Volume int
}

func (s *Sampler) Kind() Kind          { return KindSample }
func (s *Sampler) NodeName() string    { return "sampletrack" }
func (s *Sampler) ClipTag() string     { return "sampleclip" }
func (s *Sampler) DerivedLength() bool { return false }

func (s *Sampler) NewClipPayload() ClipPayload {
	return &SampleClip{}
}

func (s *Sampler) SaveSettings(n *document.Node) {
	n.SetInt("vol", s.Volume)
}

func (s *Sampler) LoadSettings(n *document.Node) error {
	vol, err := n.IntOr("vol", DefaultVolume)
	if err != nil {
		return err
	}
	s.Volume = vol
	return nil
}

func (s *Sampler) Clone() Behavior {
	c := *s
	return &c
}

// SampleClip is the clip payload of sample tracks.
type SampleClip struct {
	File string
}

func (c *SampleClip) Clone() ClipPayload {
	cp := *c
	return &cp
}

func (c *SampleClip) Save(n *document.Node) {
	n.Set("src", c.File)
}

func (c *SampleClip) Load(n *document.Node) error {
	c.File = n.String("src")
	return nil
}
