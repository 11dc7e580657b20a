package csvsink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pointsexport/internal/points"
	"github.com/rshade/pointsexport/internal/points/csvsink"
)

func TestSink_WritesRowsWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := csvsink.Open(path)
	require.NoError(t, err)

	require.NoError(t, sink.Write([]points.User{
		{Username: "alice", Points: 900},
		{Username: "bob", Points: 12},
	}))
	require.NoError(t, sink.Write([]points.User{
		{Username: "carol", Points: 3},
	}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice,900\nbob,12\ncarol,3\n", string(data))
}

func TestSink_QuotesSpecialUsernames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := csvsink.Open(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write([]points.User{{Username: `odd,"name"`, Points: 1}}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\"odd,\"\"name\"\"\",1\n", string(data))
}

func TestSink_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale,1\nstale,2\n"), 0o600))

	sink, err := csvsink.Open(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write([]points.User{{Username: "fresh", Points: 5}}))
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fresh,5\n", string(data))
}

func TestSink_EmptyWriteCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	sink, err := csvsink.Open(path)
	require.NoError(t, err)
	require.NoError(t, sink.Write(nil))
	require.NoError(t, sink.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestSink_OpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")

	sink, err := csvsink.Open(path)
	require.Error(t, err)
	assert.Nil(t, sink)
	assert.ErrorIs(t, err, points.ErrIO)
	assert.Contains(t, err.Error(), "open output")
}

func TestSink_CloseIsIdempotent(t *testing.T) {
	sink, err := csvsink.Open(filepath.Join(t.TempDir(), "out.csv"))
	require.NoError(t, err)

	require.NoError(t, sink.Close())
	require.NoError(t, sink.Close())

	err = sink.Write([]points.User{{Username: "late", Points: 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, points.ErrIO)
	assert.ErrorIs(t, err, os.ErrClosed)
}
