package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "track", 3)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "track=3")
}

func TestFileWriter_KeepsNewestOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "arranger.log")
	w, err := openFile(path, 100, 40)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	_, err = w.Write([]byte(strings.Repeat("a", 90)))
	require.NoError(t, err)
	_, err = w.Write([]byte(strings.Repeat("b", 20)))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 40)
	require.Equal(t, strings.Repeat("a", 20)+strings.Repeat("b", 20), string(data))

	_, err = w.Write([]byte("c"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, 41)
}
