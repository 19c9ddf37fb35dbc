package arrangement_test

import (
	"testing"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/stretchr/testify/require"
)

func TestContainer_NewTrack(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	for _, k := range arrangement.Kinds() {
		tr := newTrack(t, c, k)
		require.Equal(t, k, tr.Kind())
		require.Same(t, c, tr.Container())
	}
	require.Equal(t, 3, c.NumTracks())
	require.Equal(t, 3, c.CountTracks(arrangement.AllKinds))
	require.Equal(t, 1, c.CountTracks(arrangement.KindSample))

	_, err := c.NewTrack(arrangement.Kind(7))
	require.ErrorIs(t, err, arrangement.ErrUnknownKind)
	require.Equal(t, 3, c.NumTracks())
}

func TestContainer_AddTrackFromOtherContainer(t *testing.T) {
	a := arrangement.NewContainer(arrangement.Options{})
	b := arrangement.NewContainer(arrangement.Options{})
	tr := newTrack(t, b, arrangement.KindMelodic)

	require.ErrorIs(t, a.AddTrack(tr), arrangement.ErrForeignTrack)
	require.NoError(t, b.AddTrack(tr))
	require.Equal(t, 1, b.NumTracks())
}

func TestContainer_RemoveAbsentTrackIsNoop(t *testing.T) {
	a := arrangement.NewContainer(arrangement.Options{})
	b := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, a, arrangement.KindMelodic)
	foreign := newTrack(t, b, arrangement.KindSample)
	changes := a.Changes().Changes()

	a.RemoveTrack(foreign)
	require.Equal(t, 1, a.NumTracks())
	require.Equal(t, changes, a.Changes().Changes())
	require.Same(t, b, foreign.Container())
}

func TestContainer_RemoveTrackDiscardsClips(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	tr := newTrack(t, c, arrangement.KindMelodic)
	clip := addClip(t, tr, 0, 200)
	require.Equal(t, 4, c.Length())

	c.RemoveTrack(tr)
	require.Zero(t, c.NumTracks())
	require.Zero(t, tr.NumClips())
	require.Nil(t, clip.Track())
	require.Nil(t, tr.Container())
	require.Zero(t, c.Length())
}

func TestContainer_MoveTrackBoundaries(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	a := newTrack(t, c, arrangement.KindMelodic)
	b := newTrack(t, c, arrangement.KindSample)
	d := newTrack(t, c, arrangement.KindMelodic)
	c.Changes().ClearModified()

	c.MoveTrackUp(a)
	c.MoveTrackDown(d)
	require.Equal(t, []*arrangement.Track{a, b, d}, c.Tracks())
	require.False(t, c.Changes().Modified())

	c.MoveTrackDown(a)
	require.Equal(t, []*arrangement.Track{b, a, d}, c.Tracks())
	require.True(t, c.Changes().Modified())

	c.MoveTrackUp(d)
	require.Equal(t, []*arrangement.Track{b, d, a}, c.Tracks())
}

func TestContainer_ReorderSwapsBeatBasslineIndex(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	a := newTrack(t, c, arrangement.KindBeatBassline)
	b := newTrack(t, c, arrangement.KindBeatBassline)
	m := newTrack(t, c, arrangement.KindMelodic)
	a.Behavior().(*arrangement.BeatBassline).Index = 0
	b.Behavior().(*arrangement.BeatBassline).Index = 1

	var observed [][2]*arrangement.Track
	c.OnReorder(func(x, y *arrangement.Track) {
		observed = append(observed, [2]*arrangement.Track{x, y})
	})

	c.MoveTrackDown(a)
	require.Equal(t, 1, a.Behavior().(*arrangement.BeatBassline).Index)
	require.Equal(t, 0, b.Behavior().(*arrangement.BeatBassline).Index)
	require.Equal(t, [][2]*arrangement.Track{{a, b}}, observed)

	// Swapping with a melodic track leaves the index alone.
	c.MoveTrackDown(a)
	require.Equal(t, []*arrangement.Track{b, m, a}, c.Tracks())
	require.Equal(t, 1, a.Behavior().(*arrangement.BeatBassline).Index)
	require.Len(t, observed, 2)
}

func TestContainer_EnginePausedAroundStructuralChanges(t *testing.T) {
	engine := &countingEngine{}
	c := arrangement.NewContainer(arrangement.Options{Engine: engine})

	a := newTrack(t, c, arrangement.KindMelodic)
	newTrack(t, c, arrangement.KindMelodic)
	require.Equal(t, 2, engine.pauses)

	c.MoveTrackDown(a)
	require.Equal(t, 3, engine.pauses)

	_, err := c.CloneTrack(a)
	require.NoError(t, err)
	require.Equal(t, 4, engine.pauses)

	c.RemoveTrack(a)
	require.Equal(t, 5, engine.pauses)
	require.Equal(t, engine.pauses, engine.resumes)

	c.Length()
	c.Tracks()[0].ClipsInRange(0, 64)
	require.Equal(t, 5, engine.pauses)
}

func TestContainer_Length(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	var lengths []int
	c.OnLengthChanged(func(bars int) { lengths = append(lengths, bars) })

	short := newTrack(t, c, arrangement.KindMelodic)
	long := newTrack(t, c, arrangement.KindSample)
	addClip(t, short, 0, 70)
	clip := addClip(t, long, 128, 64)
	require.Equal(t, 3, c.Length())

	clip.Move(0)
	require.Equal(t, 2, c.Length())
	require.Equal(t, []int{2, 3, 2}, lengths)
}

func TestContainer_InsertAndRemoveBar(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	a := newTrack(t, c, arrangement.KindMelodic)
	b := newTrack(t, c, arrangement.KindSample)
	addClip(t, a, 0, 64)
	addClip(t, a, 64, 64)
	addClip(t, b, 192, 64)

	c.InsertBar(64)
	require.Equal(t, []arrangement.Ticks{0, 128}, starts(a.Clips()))
	require.Equal(t, []arrangement.Ticks{256}, starts(b.Clips()))

	c.RemoveBar(64)
	require.Equal(t, []arrangement.Ticks{0, 64}, starts(a.Clips()))
	require.Equal(t, []arrangement.Ticks{192}, starts(b.Clips()))
}

func TestContainer_Solo(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	a := newTrack(t, c, arrangement.KindMelodic)
	b := newTrack(t, c, arrangement.KindMelodic)
	d := newTrack(t, c, arrangement.KindSample)

	require.NoError(t, c.Solo(b))
	require.True(t, a.Muted())
	require.False(t, b.Muted())
	require.True(t, d.Muted())

	// b is unmuted: everyone else comes back and b goes quiet.
	require.NoError(t, c.ToggleSolo(b))
	require.False(t, a.Muted())
	require.True(t, b.Muted())
	require.False(t, d.Muted())

	require.NoError(t, c.ToggleSolo(b))
	require.True(t, a.Muted())
	require.False(t, b.Muted())
	require.True(t, d.Muted())

	other := arrangement.NewContainer(arrangement.Options{})
	require.ErrorIs(t, other.Solo(b), arrangement.ErrNotInContainer)
}

func TestContainer_SharedChangeTracker(t *testing.T) {
	changes := &arrangement.ChangeTracker{}
	song := arrangement.NewContainer(arrangement.Options{Changes: changes})
	beats := arrangement.NewContainer(arrangement.Options{Type: "bbeditor", Changes: changes})

	newTrack(t, beats, arrangement.KindMelodic)
	require.True(t, song.Changes().Modified())

	changes.ClearModified()
	require.False(t, song.Changes().Modified())
	require.Positive(t, changes.Changes())

	var nilTracker *arrangement.ChangeTracker
	nilTracker.MarkModified()
	require.False(t, nilTracker.Modified())
}
