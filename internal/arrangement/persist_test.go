package arrangement_test

import (
	"context"
	"testing"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/document"
	"github.com/stretchr/testify/require"
)

func TestContainer_SaveLoadRoundTrip(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	melodic := newTrack(t, src, arrangement.KindMelodic)
	clip := addClip(t, melodic, 0, 64)
	clip.Payload().(*arrangement.Pattern).Notes = []arrangement.Note{
		{Pos: 0, Length: 16, Key: 60, Volume: 100},
		{Pos: 32, Length: 8, Key: 67, Volume: 80},
	}
	beats := newTrack(t, src, arrangement.KindBeatBassline)
	beats.SetMuted(true)

	data, err := document.Marshal(src.Save())
	require.NoError(t, err)
	root, err := document.Unmarshal(data)
	require.NoError(t, err)

	changes := &arrangement.ChangeTracker{}
	dst := arrangement.NewContainer(arrangement.Options{Changes: changes})
	sess := arrangement.NewLoadSession(nil)
	require.NoError(t, dst.Load(context.Background(), root, sess))
	require.NoError(t, sess.Err())
	require.Empty(t, sess.Failures())
	require.True(t, changes.Modified())

	tracks := dst.Tracks()
	require.Len(t, tracks, 2)
	require.Equal(t, arrangement.KindMelodic, tracks[0].Kind())
	require.Equal(t, arrangement.KindBeatBassline, tracks[1].Kind())
	require.Equal(t, melodic.ID(), tracks[0].ID())
	require.False(t, tracks[0].Muted())
	require.True(t, tracks[1].Muted())
	require.Zero(t, tracks[1].NumClips())
	require.Equal(t, melodic.Behavior(), tracks[0].Behavior())

	loaded, err := tracks[0].Clip(0)
	require.NoError(t, err)
	require.Equal(t, clip.ID(), loaded.ID())
	require.Equal(t, arrangement.Ticks(0), loaded.Start())
	require.Equal(t, arrangement.Ticks(64), loaded.Length())
	require.Equal(t, clip.Payload(), loaded.Payload())
}

func TestContainer_LoadRejectsOtherRecord(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	err := c.Load(context.Background(), document.New("song"), nil)
	require.ErrorIs(t, err, arrangement.ErrUnexpectedRecord)
}

func TestContainer_LoadSkipsBrokenRecords(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, src, arrangement.KindMelodic)
	newTrack(t, src, arrangement.KindSample)
	root := src.Save()
	root.Children[0].Set("type", "9")
	root.Children = append(root.Children, document.New("automationtrack"))

	dst := arrangement.NewContainer(arrangement.Options{})
	sess := arrangement.NewLoadSession(nil)
	require.NoError(t, dst.Load(context.Background(), root, sess))

	require.Equal(t, 1, dst.NumTracks())
	require.Equal(t, arrangement.KindSample, dst.Tracks()[0].Kind())

	failures := sess.Failures()
	require.Len(t, failures, 2)
	require.Equal(t, 0, failures[0].Index)
	require.ErrorIs(t, failures[0], arrangement.ErrUnknownKind)
	require.Equal(t, 2, failures[1].Index)
	require.Equal(t, "automationtrack", failures[1].Tag)
	require.ErrorIs(t, failures[1], arrangement.ErrUnexpectedRecord)
}

func TestContainer_LoadRemovesTrackWhenClipFails(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	tr := newTrack(t, src, arrangement.KindMelodic)
	addClip(t, tr, 0, 64)
	root := src.Save()
	delete(root.Children[0].Children[1].Attrs, "pos")

	dst := arrangement.NewContainer(arrangement.Options{})
	sess := arrangement.NewLoadSession(nil)
	require.NoError(t, dst.Load(context.Background(), root, sess))
	require.Zero(t, dst.NumTracks())
	require.Len(t, sess.Failures(), 1)
	require.ErrorIs(t, sess.Failures()[0], document.ErrMissingAttr)
}

func TestContainer_LoadCancelledBeforeStart(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, src, arrangement.KindMelodic)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dst := arrangement.NewContainer(arrangement.Options{})
	sess := arrangement.NewLoadSession(nil)
	require.NoError(t, dst.Load(ctx, src.Save(), sess))
	require.Zero(t, dst.NumTracks())
	require.True(t, sess.Cancelled())
	require.ErrorIs(t, sess.Err(), arrangement.ErrLoadCancelled)
	require.ErrorIs(t, sess.Err(), context.Canceled)
}

func TestContainer_LoadCancelledMidway(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	for range 3 {
		newTrack(t, src, arrangement.KindSample)
	}

	var sess *arrangement.LoadSession
	sess = arrangement.NewLoadSession(func(done, total int) {
		if done == 1 {
			sess.Cancel()
		}
	})
	dst := arrangement.NewContainer(arrangement.Options{})
	require.NoError(t, dst.Load(context.Background(), src.Save(), sess))

	require.Equal(t, 1, dst.NumTracks())
	require.Equal(t, 3, sess.Total())
	require.Equal(t, 1, sess.Done())
	require.ErrorIs(t, sess.Err(), arrangement.ErrLoadCancelled)
}

func TestContainer_LoadReportsProgress(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, src, arrangement.KindMelodic)
	newTrack(t, src, arrangement.KindBeatBassline)

	var calls [][2]int
	sess := arrangement.NewLoadSession(func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	dst := arrangement.NewContainer(arrangement.Options{})
	require.NoError(t, dst.Load(context.Background(), src.Save(), sess))

	require.Equal(t, [2]int{0, 2}, calls[0])
	require.Equal(t, [2]int{2, 2}, calls[len(calls)-1])
	require.Equal(t, sess.Total(), sess.Done())
}

func TestContainer_LoadSharesSessionAcrossContainers(t *testing.T) {
	song := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, song, arrangement.KindMelodic)
	beats := arrangement.NewContainer(arrangement.Options{Type: "bbeditor"})
	newTrack(t, beats, arrangement.KindSample)
	newTrack(t, beats, arrangement.KindSample)

	sess := arrangement.NewLoadSession(nil)
	ctx := context.Background()
	require.NoError(t, arrangement.NewContainer(arrangement.Options{}).Load(ctx, song.Save(), sess))
	require.NoError(t, arrangement.NewContainer(arrangement.Options{Type: "bbeditor"}).Load(ctx, beats.Save(), sess))
	require.Equal(t, 3, sess.Total())
	require.Equal(t, 3, sess.Done())
}

func TestContainer_LoadNestedInsideRunningLoad(t *testing.T) {
	song := arrangement.NewContainer(arrangement.Options{})
	newTrack(t, song, arrangement.KindMelodic)
	newTrack(t, song, arrangement.KindBeatBassline)
	beats := arrangement.NewContainer(arrangement.Options{Type: "bbeditor"})
	newTrack(t, beats, arrangement.KindSample)
	newTrack(t, beats, arrangement.KindSample)
	newTrack(t, beats, arrangement.KindSample)

	ctx := context.Background()
	inner := arrangement.NewContainer(arrangement.Options{Type: "bbeditor"})
	var sess *arrangement.LoadSession
	nested := false
	sess = arrangement.NewLoadSession(func(done, total int) {
		if done == 1 && !nested {
			nested = true
			require.NoError(t, inner.Load(ctx, beats.Save(), sess))
		}
	})
	outer := arrangement.NewContainer(arrangement.Options{})
	require.NoError(t, outer.Load(ctx, song.Save(), sess))

	require.Equal(t, 2, outer.NumTracks())
	require.Equal(t, 3, inner.NumTracks())
	require.Equal(t, 5, sess.Total())
	require.Equal(t, 5, sess.Done())
}

func TestTrack_LoadToleratesTypeMismatch(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	sample := newTrack(t, c, arrangement.KindSample)
	sample.SetMuted(true)
	addClip(t, sample, 64, 32)
	rec := sample.Save(document.New("clipboard"))

	dst := newTrack(t, c, arrangement.KindMelodic)
	settings := dst.Behavior()
	addClip(t, dst, 0, 32)
	require.NoError(t, dst.Load(rec))
	require.Equal(t, arrangement.KindMelodic, dst.Kind())
	require.True(t, dst.Muted())
	require.Zero(t, dst.NumClips())
	require.Equal(t, settings, dst.Behavior())
}

func TestTrack_LoadMixedKindRecord(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	melodic := newTrack(t, c, arrangement.KindMelodic)
	addClip(t, melodic, 128, 64)
	rec := melodic.Save(document.New("clipboard"))
	sample := newTrack(t, c, arrangement.KindSample)
	addClip(t, sample, 0, 32)
	for _, child := range sample.Save(document.New("clipboard")).Children {
		rec.Append(child)
	}

	dst := newTrack(t, c, arrangement.KindMelodic)
	require.NoError(t, dst.Load(rec))
	require.Equal(t, []arrangement.Ticks{128}, starts(dst.Clips()))
}

func TestTrack_LoadFailureKeepsTrack(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	src := newTrack(t, c, arrangement.KindMelodic)
	addClip(t, src, 0, 64)
	rec := src.Save(document.New("clipboard"))
	rec.AddChild("automationpattern")

	dst := newTrack(t, c, arrangement.KindMelodic)
	addClip(t, dst, 192, 64)
	err := dst.Load(rec)
	require.ErrorIs(t, err, arrangement.ErrUnexpectedRecord)
	require.Equal(t, []arrangement.Ticks{192}, starts(dst.Clips()))

	delete(rec.Children[1].Attrs, "pos")
	rec.Children = rec.Children[:2]
	require.ErrorIs(t, dst.Load(rec), document.ErrMissingAttr)
	require.Equal(t, []arrangement.Ticks{192}, starts(dst.Clips()))
}

func TestContainer_CloneTrack(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	orig := newTrack(t, c, arrangement.KindMelodic)
	orig.SetMuted(true)
	first := addClip(t, orig, 128, 64)
	first.Payload().(*arrangement.Pattern).Notes = []arrangement.Note{{Pos: 0, Length: 16, Key: 48, Volume: 90}}
	addClip(t, orig, 0, 32)

	clone, err := c.CloneTrack(orig)
	require.NoError(t, err)
	require.NotEqual(t, orig.ID(), clone.ID())
	require.Equal(t, orig.Kind(), clone.Kind())
	require.Equal(t, orig.Muted(), clone.Muted())
	require.Equal(t, 2, c.NumTracks())

	origClips, cloneClips := orig.Clips(), clone.Clips()
	require.Len(t, cloneClips, len(origClips))
	for i := range origClips {
		require.NotEqual(t, origClips[i].ID(), cloneClips[i].ID())
		require.Equal(t, origClips[i].Start(), cloneClips[i].Start())
		require.Equal(t, origClips[i].Length(), cloneClips[i].Length())
		require.Equal(t, origClips[i].Payload(), cloneClips[i].Payload())
	}

	cloneClips[0].Move(512)
	cloneClips[0].Payload().(*arrangement.Pattern).Notes[0].Key = 50
	clone.SetMuted(false)
	require.Equal(t, arrangement.Ticks(128), first.Start())
	require.Equal(t, 48, first.Payload().(*arrangement.Pattern).Notes[0].Key)
	require.True(t, orig.Muted())

	other := arrangement.NewContainer(arrangement.Options{})
	_, err = other.CloneTrack(orig)
	require.ErrorIs(t, err, arrangement.ErrNotInContainer)
}
