package arrangement_test

import (
	"testing"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/rpggio/arranger/internal/document"
	"github.com/stretchr/testify/require"
)

func TestDragKeys(t *testing.T) {
	require.Equal(t, "clip_2", arrangement.ClipKey(arrangement.KindSample))
	require.Equal(t, "track_1", arrangement.TrackKey(arrangement.KindBeatBassline))

	require.True(t, arrangement.Accepts("clip_0", arrangement.KindMelodic))
	require.True(t, arrangement.Accepts("track_2", arrangement.KindSample))
	require.False(t, arrangement.Accepts("clip_0", arrangement.KindSample))
	require.False(t, arrangement.Accepts("clip_9", arrangement.Kind(9)))
	require.False(t, arrangement.Accepts("tco_0", arrangement.KindMelodic))
}

func TestTrack_DropClip(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{})
	src := newTrack(t, c, arrangement.KindSample)
	dst := newTrack(t, c, arrangement.KindSample)
	melodic := newTrack(t, c, arrangement.KindMelodic)

	clip := addClip(t, src, 0, 96)
	clip.Payload().(*arrangement.SampleClip).File = "kick.wav"
	rec := clip.Save(document.New("drag"))

	require.False(t, melodic.AcceptsClip(arrangement.ClipKey(arrangement.KindSample)))
	_, err := melodic.DropClip(arrangement.ClipKey(arrangement.KindSample), rec, 0)
	require.ErrorIs(t, err, arrangement.ErrKindMismatch)

	dropped, err := dst.DropClip(arrangement.ClipKey(arrangement.KindSample), rec, 256)
	require.NoError(t, err)
	require.NotEqual(t, clip.ID(), dropped.ID())
	require.Equal(t, arrangement.Ticks(256), dropped.Start())
	require.Equal(t, arrangement.Ticks(96), dropped.Length())
	require.Equal(t, "kick.wav", dropped.Payload().(*arrangement.SampleClip).File)
	require.Equal(t, 1, dst.NumClips())
}

func TestTrack_FixedLayoutRefusesClipDrops(t *testing.T) {
	c := arrangement.NewContainer(arrangement.Options{FixedLayout: true})
	tr := newTrack(t, c, arrangement.KindBeatBassline)
	require.False(t, tr.AcceptsClip(arrangement.ClipKey(arrangement.KindBeatBassline)))
}

func TestContainer_DropTrack(t *testing.T) {
	src := arrangement.NewContainer(arrangement.Options{})
	tr := newTrack(t, src, arrangement.KindMelodic)
	addClip(t, tr, 64, 64)
	rec := tr.Save(document.New("drag"))

	dst := arrangement.NewContainer(arrangement.Options{})
	require.False(t, dst.AcceptsTrack("track_9"))
	_, err := dst.DropTrack("track_9", rec)
	require.ErrorIs(t, err, arrangement.ErrKindMismatch)

	dropped, err := dst.DropTrack(arrangement.TrackKey(tr.Kind()), rec)
	require.NoError(t, err)
	require.NotEqual(t, tr.ID(), dropped.ID())
	require.Equal(t, []arrangement.Ticks{64}, starts(dropped.Clips()))

	_, ok := rec.Attr("id")
	require.True(t, ok)
}
