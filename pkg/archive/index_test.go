// pkg/archive/index_test.go
package archive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creativeyann17/solidfs/pkg/archive"
)

func paths(entries []*archive.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestIndexLookupRoundTrip(t *testing.T) {
	members := []archive.Member{
		{Path: "b.txt", Size: 3, Block: 0},
		{Path: "a.txt", Size: 5, Block: 0},
		{Path: "dir", IsDir: true, Block: archive.NoBlock},
		{Path: "dir/c.bin", Size: 7, Block: 1},
		{Path: "Z", Size: 1, Block: 1},
	}
	idx := archive.BuildIndex(members, nil)
	require.Equal(t, len(members), idx.Len())

	for _, m := range members {
		e, err := idx.Lookup(m.Path)
		require.NoError(t, err, m.Path)
		assert.Equal(t, m.Path, e.Path)
		assert.Equal(t, m.Size, e.Size)
		assert.Equal(t, m.IsDir, e.IsDir)
		assert.Equal(t, m.Block, e.Block)
	}

	// Byte-wise order puts upper case first.
	assert.Equal(t, []string{"Z", "a.txt", "b.txt", "dir", "dir/c.bin"}, paths(idx.Entries()))

	_, err := idx.Lookup("missing")
	assert.ErrorIs(t, err, archive.ErrNotFound)
}

func TestIndexRootRangeSkipsNested(t *testing.T) {
	idx := archive.BuildIndex([]archive.Member{
		{Path: "a.txt", Size: 1},
		{Path: "dir/b.txt", Size: 1},
		{Path: "dir/sub/c.txt", Size: 1},
	}, nil)

	first, last, err := idx.RangeForDirectory("")
	require.NoError(t, err)
	assert.Equal(t, 0, first)
	assert.Equal(t, idx.Len(), last)

	root, err := idx.ReadDir("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "dir"}, paths(root))

	sub, err := idx.ReadDir("dir")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/b.txt", "dir/sub"}, paths(sub))
}

func TestIndexRangeExcludesPrefixSiblings(t *testing.T) {
	idx := archive.BuildIndex([]archive.Member{
		{Path: "dir", IsDir: true, Block: archive.NoBlock},
		{Path: "dir-x", Size: 1},
		{Path: "dir.txt", Size: 1},
		{Path: "dir/a", Size: 1},
		{Path: "dir/b", Size: 1},
	}, nil)

	first, last, err := idx.RangeForDirectory("dir")
	require.NoError(t, err)
	entries := idx.Entries()
	assert.Equal(t, []string{"dir/a", "dir/b"}, paths(entries[first:last]))
}

func TestIndexRangeErrors(t *testing.T) {
	idx := archive.BuildIndex([]archive.Member{{Path: "file", Size: 1}}, nil)

	_, _, err := idx.RangeForDirectory("nope")
	assert.ErrorIs(t, err, archive.ErrNotFound)

	_, _, err = idx.RangeForDirectory("file")
	assert.ErrorIs(t, err, archive.ErrNotADirectory)
}

func TestIndexNormalization(t *testing.T) {
	idx := archive.BuildIndex([]archive.Member{
		{Path: "/abs.txt", Size: 1},
		{Path: "./rel/x.txt", Size: 2},
		{Path: "trail/", IsDir: true},
		{Path: "../escape", Size: 3},
		{Path: "", Size: 4},
		{Path: "dup", Size: 1, Block: 0},
		{Path: "dup", Size: 9, Block: 2},
	}, nil)

	assert.Equal(t, []string{"abs.txt", "dup", "rel", "rel/x.txt", "trail"}, paths(idx.Entries()))

	dup, err := idx.Lookup("dup")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), dup.Size)
	assert.Equal(t, archive.BlockID(2), dup.Block)

	rel, err := idx.Lookup("/rel/")
	require.NoError(t, err)
	assert.True(t, rel.IsDir)
	assert.False(t, rel.HasBlock())
}

func TestIndexEmpty(t *testing.T) {
	idx := archive.BuildIndex(nil, nil)
	assert.Equal(t, 0, idx.Len())

	children, err := idx.ReadDir("")
	require.NoError(t, err)
	assert.Empty(t, children)
}
