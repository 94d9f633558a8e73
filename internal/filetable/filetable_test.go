package filetable

import (
	"testing"

	"github.com/hpc/cruise/internal/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, maxFiles, maxName, maxChunksPerFile int) *Table {
	t.Helper()
	names := make([]byte, maxFiles*slotBytes(maxName))
	metas := make([]byte, maxFiles*metaBytes(maxChunksPerFile))
	freeRegion := make([]byte, stack.Bytes(maxFiles))
	free := stack.Init(freeRegion, maxFiles)
	return New(names, metas, maxFiles, maxName, maxChunksPerFile, free)
}

func TestAllocateThenLookup(t *testing.T) {
	tb := newTestTable(t, 4, 16, 4)

	fid, err := tb.Allocate("/tmp/a")
	require.NoError(t, err)
	assert.Equal(t, 0, fid)

	got, ok := tb.Lookup("/tmp/a")
	assert.True(t, ok)
	assert.Equal(t, fid, got)

	_, ok = tb.Lookup("/tmp/missing")
	assert.False(t, ok)
}

func TestAllocateZeroesMeta(t *testing.T) {
	tb := newTestTable(t, 2, 16, 4)

	fid, err := tb.Allocate("/tmp/a")
	require.NoError(t, err)

	assert.Zero(t, tb.Size(fid))
	assert.Zero(t, tb.ChunksLen(fid))
}

func TestAllocateNameTooLongLeavesFidPoolUntouched(t *testing.T) {
	tb := newTestTable(t, 2, 4, 4)

	_, err := tb.Allocate("/tmp/toolong")
	assert.ErrorIs(t, err, ErrNameTooLong)
	assert.Equal(t, 2, tb.FreeLen())
}

func TestAllocateExhaustionSurfacesStackEmpty(t *testing.T) {
	tb := newTestTable(t, 1, 16, 4)

	_, err := tb.Allocate("/tmp/a")
	require.NoError(t, err)

	_, err = tb.Allocate("/tmp/b")
	assert.ErrorIs(t, err, stack.ErrEmpty)
}

func TestReleaseClearsInUseAndReturnsFid(t *testing.T) {
	tb := newTestTable(t, 1, 16, 4)
	fid, _ := tb.Allocate("/tmp/a")

	tb.Release(fid)

	assert.False(t, tb.InUse(fid))
	assert.Equal(t, 1, tb.FreeLen())
}

func TestAppendAndPopChunk(t *testing.T) {
	tb := newTestTable(t, 1, 16, 4)
	fid, _ := tb.Allocate("/tmp/a")

	assert.True(t, tb.AppendChunk(fid, 7))
	assert.True(t, tb.AppendChunk(fid, 9))
	assert.Equal(t, 2, tb.ChunksLen(fid))
	assert.Equal(t, 7, tb.ChunkID(fid, 0))
	assert.Equal(t, 9, tb.ChunkID(fid, 1))

	popped := tb.PopChunk(fid)
	assert.Equal(t, 9, popped)
	assert.Equal(t, 1, tb.ChunksLen(fid))
}

func TestAppendChunkAtCapacityFails(t *testing.T) {
	tb := newTestTable(t, 1, 16, 2)
	fid, _ := tb.Allocate("/tmp/a")

	require.True(t, tb.AppendChunk(fid, 1))
	require.True(t, tb.AppendChunk(fid, 2))
	assert.False(t, tb.AppendChunk(fid, 3))
}

func TestRenamePreservesChunksAndFid(t *testing.T) {
	tb := newTestTable(t, 2, 16, 4)
	fid, _ := tb.Allocate("/tmp/a")
	tb.AppendChunk(fid, 5)
	tb.SetSize(fid, 123)

	require.NoError(t, tb.Rename(fid, "/tmp/b"))

	assert.Equal(t, "/tmp/b", tb.Name(fid))
	assert.Equal(t, int64(123), tb.Size(fid))
	assert.Equal(t, 5, tb.ChunkID(fid, 0))
	_, ok := tb.Lookup("/tmp/a")
	assert.False(t, ok)
}
