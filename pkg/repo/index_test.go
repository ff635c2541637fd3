package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/wyag/pkg/index"
)

func TestReadIndex(t *testing.T) {
	r := newTestRepo(t)

	idx, err := r.ReadIndex()
	require.NoError(t, err)
	require.Equal(t, uint32(2), idx.Version)
	require.Empty(t, idx.Entries)

	data, err := os.ReadFile(filepath.Join("..", "index", "testdata", "two-entries.index"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(r.Path("index"), data, 0o644))

	idx, err = r.ReadIndex()
	require.NoError(t, err)
	require.Len(t, idx.Entries, 2)
	require.Equal(t, "a", idx.Entries[0].Name)
	require.Equal(t, "bb", idx.Entries[1].Name)

	require.NoError(t, os.WriteFile(r.Path("index"), []byte("DIRC\x00\x00\x00\x03\x00\x00\x00\x00"), 0o644))
	_, err = r.ReadIndex()
	require.ErrorIs(t, err, index.ErrUnsupportedVersion)
}
