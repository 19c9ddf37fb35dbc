package arrangement_test

import (
	"testing"

	"github.com/rpggio/arranger/internal/arrangement"
	"github.com/stretchr/testify/require"
)

type countingEngine struct {
	pauses  int
	resumes int
}

func (e *countingEngine) Pause()  { e.pauses++ }
func (e *countingEngine) Resume() { e.resumes++ }

func newTrack(t *testing.T, c *arrangement.Container, k arrangement.Kind) *arrangement.Track {
	t.Helper()
	tr, err := c.NewTrack(k)
	require.NoError(t, err)
	return tr
}

func addClip(t *testing.T, tr *arrangement.Track, start, length arrangement.Ticks) *arrangement.Clip {
	t.Helper()
	c := tr.CreateClip(start)
	_, err := tr.AddClip(c)
	require.NoError(t, err)
	c.Resize(length)
	return c
}

func starts(clips []*arrangement.Clip) []arrangement.Ticks {
	out := make([]arrangement.Ticks, 0, len(clips))
	for _, c := range clips {
		out = append(out, c.Start())
	}
	return out
}
