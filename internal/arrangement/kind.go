package arrangement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/arranger/internal/document"
)

// Kind identifies one of the closed set of track variants. The numeric
// values are the ones stored in the "type" attribute of track records.
type Kind int

const (
	KindMelodic Kind = iota
	KindBeatBassline
	KindSample
)

// AllKinds is the CountTracks filter matching every kind.
const AllKinds Kind = -1

var kindNames = map[Kind]string{
	KindMelodic:      "melodic",
	KindBeatBassline: "beatbassline",
	KindSample:       "sample",
}

// Kinds lists every valid kind in numeric order.
func Kinds() []Kind {
	return []Kind{KindMelodic, KindBeatBassline, KindSample}
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind accepts a kind name or its numeric id.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if s == name {
			return k, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Kind(n).Valid() {
		return Kind(n), nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// ClipPayload is the kind-specific content of a clip. The model never looks
// inside it; it only copies and serializes it.
type ClipPayload interface {
	Clone() ClipPayload
	Save(n *document.Node)
	Load(n *document.Node) error
}

// Behavior is the capability set every track kind implements.
type Behavior interface {
	Kind() Kind
	// NodeName is the tag of the track-specific settings record.
	NodeName() string
	// ClipTag is the tag of this kind's clip records.
	ClipTag() string
	NewClipPayload() ClipPayload
	SaveSettings(n *document.Node)
	LoadSettings(n *document.Node) error
	// DerivedLength reports whether clip lengths are computed from the
	// visible width when the container uses fixed layout.
	DerivedLength() bool
	Clone() Behavior
}

// PairedOrder is implemented by kinds that keep a secondary ordering in
// lockstep with the container's track order. SwapOrder runs before two
// neighbouring tracks trade places.
type PairedOrder interface {
	SwapOrder(other Behavior)
}

// kindOfTag reports the kind whose settings or clip records use tag.
func kindOfTag(tag string) (Kind, bool) {
	for _, k := range Kinds() {
		b, err := NewBehavior(k)
		if err != nil {
			continue
		}
		if tag == b.NodeName() || tag == b.ClipTag() {
			return k, true
		}
	}
	return 0, false
}

// NewBehavior returns the default behavior for k.
func NewBehavior(k Kind) (Behavior, error) {
	switch k {
	case KindMelodic:
		return &Instrument{Name: "Default", Volume: DefaultVolume}, nil
	case KindBeatBassline:
		return &BeatBassline{}, nil
	case KindSample:
		return &Sampler{Volume: DefaultVolume}, nil
	}
	return nil, &KindError{Kind: k}
}
