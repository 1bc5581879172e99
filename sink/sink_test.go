package sink

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFileAppendsAndCloses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frames.ndjson")

	w, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, w.Write([]byte("{}\n")))
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{}\n", string(got))
}

func TestMockSinkRecordsWrites(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.Write([]byte("a")))
	require.NoError(t, m.Write([]byte("b")))
	require.Equal(t, 2, m.Count())
	writes := m.Writes()
	require.Equal(t, "a", string(writes[0]))
	require.Equal(t, "b", string(writes[1]))
}

func TestMockSinkSetErr(t *testing.T) {
	m := NewMock()
	wantErr := errors.New("disk full")
	m.SetErr(wantErr)
	require.ErrorIs(t, m.Write([]byte("x")), wantErr)
	require.Equal(t, 0, m.Count())
}
