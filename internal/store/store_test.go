package store

import (
	"testing"

	"github.com/hpc/cruise/internal/logger"
	"github.com/hpc/cruise/internal/superblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopLogger gives each scenario store a discarding logger so test output
// stays quiet; the store's logging calls are still exercised.
func noopLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewNop()
}

// newScenarioStore builds a Store directly over an in-process arena,
// bypassing internal/shmseg so unit tests don't depend on SysV shared
// memory being available in the sandbox. This mirrors the concrete literal
// values used throughout spec §8's end-to-end scenarios.
func newScenarioStore(t *testing.T, maxChunks int) *Store {
	t.Helper()
	c := Config{
		MaxFiles:         128,
		MaxFileDescs:     128,
		MaxChunks:        maxChunks,
		ChunkBits:        20, // 1 MiB chunks
		MaxFilenameLen:   128,
		MaxChunksPerFile: maxChunks,
		MountPrefix:      "/tmp",
		FDBiasOverride:   1024,
	}
	layout := c.layout()
	arena := make([]byte, layout.Size())
	sb := superblock.New(arena, layout, true)

	return &Store{
		cfg:    c,
		log:    noopLogger(t),
		prefix: c.MountPrefix,
		key:    0,
		sb:     sb,
		fdBias: c.FDBiasOverride,
		pos:    make([]int64, c.MaxFiles),
	}
}

// Scenario 1: create/write/read.
func TestScenarioCreateWriteRead(t *testing.T) {
	s := newScenarioStore(t, 128)

	fd, err := s.Open("/tmp/a", OCreat|ORDWR)
	require.NoError(t, err)
	assert.Equal(t, 1024, fd)

	n, err := s.Write(fd, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	pos, err := s.Lseek(fd, 0, SeekSet)
	require.NoError(t, err)
	assert.Zero(t, pos)

	buf := make([]byte, 5)
	n, err = s.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

// Scenario 2: a write that spans a chunk boundary.
func TestScenarioBoundarySpanningWrite(t *testing.T) {
	s := newScenarioStore(t, 128)
	fd, err := s.Open("/tmp/b", OCreat|ORDWR)
	require.NoError(t, err)

	zeros := make([]byte, 1048575)
	n, err := s.Write(fd, zeros)
	require.NoError(t, err)
	assert.Equal(t, 1048575, n)

	n, err = s.Write(fd, []byte("XY"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fid := fd - s.fdBias
	assert.Equal(t, 2, s.sb.Files.ChunksLen(fid))
	assert.EqualValues(t, 1048577, s.sb.Files.Size(fid))

	_, err = s.Lseek(fd, 1048574, SeekSet)
	require.NoError(t, err)
	buf := make([]byte, 3)
	n, err = s.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []byte{0, 'X', 'Y'}, buf)
}

// Scenario 3: O_EXCL conflict.
func TestScenarioExclConflict(t *testing.T) {
	s := newScenarioStore(t, 128)
	_, err := s.Open("/tmp/c", OCreat|ORDWR)
	require.NoError(t, err)

	_, err = s.Open("/tmp/c", OCreat|OExcl|ORDWR)
	assert.ErrorIs(t, err, ErrExists)
}

// Scenario 4: truncate releases chunks.
func TestScenarioTruncateReleasesChunks(t *testing.T) {
	s := newScenarioStore(t, 128)
	fd, err := s.Open("/tmp/d", OCreat|ORDWR)
	require.NoError(t, err)

	_, err = s.Write(fd, make([]byte, 3*1048576))
	require.NoError(t, err)

	require.NoError(t, s.Truncate("/tmp/d", 0))

	size, err := s.Stat("/tmp/d")
	require.NoError(t, err)
	assert.Zero(t, size)

	buf := make([]byte, 10)
	n, err := s.Read(fd, buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// Scenario 5: cross-boundary rename.
func TestScenarioCrossBoundaryRename(t *testing.T) {
	s := newScenarioStore(t, 128)
	_, err := s.Open("/tmp/e", OCreat|ORDWR)
	require.NoError(t, err)

	err = s.Rename("/tmp/e", "/var/e")
	assert.ErrorIs(t, err, ErrCrossBoundary)

	_, lookupErr := s.Stat("/tmp/e")
	assert.NoError(t, lookupErr)
}

// Scenario 6: chunk exhaustion documents partial-extension behavior.
func TestScenarioChunkExhaustion(t *testing.T) {
	s := newScenarioStore(t, 2)
	fd, err := s.Open("/tmp/f", OCreat|ORDWR)
	require.NoError(t, err)

	_, err = s.Write(fd, make([]byte, 3*1048576))
	assert.ErrorIs(t, err, ErrNoSpace)

	fid := fd - s.fdBias
	assert.EqualValues(t, 3*1048576, s.sb.Files.Size(fid))
	assert.Equal(t, 2, s.sb.Files.ChunksLen(fid))
}

func TestOpenWithoutCreateOnMissingPathReturnsNotFound(t *testing.T) {
	s := newScenarioStore(t, 4)
	_, err := s.Open("/tmp/missing", ORDWR)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenNameTooLongReturnsNameTooLong(t *testing.T) {
	s := newScenarioStore(t, 4)
	s.cfg.MaxFilenameLen = 4
	_, err := s.Open("/tmp/waytoolong", OCreat|ORDWR)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestOpenUnsupportedNameReturnsUnsupported(t *testing.T) {
	s := newScenarioStore(t, 4)

	_, err := s.Open("/", OCreat|ORDWR)
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = s.Open("/tmp//double", OCreat|ORDWR)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRenameToUnsupportedNameReturnsUnsupported(t *testing.T) {
	s := newScenarioStore(t, 4)
	_, err := s.Open("/tmp/n", OCreat|ORDWR)
	require.NoError(t, err)

	err = s.Rename("/tmp/n", "/tmp//double")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestReadWriteOnBadDescriptorReturnsBadDescriptor(t *testing.T) {
	s := newScenarioStore(t, 4)
	_, err := s.Read(1024, make([]byte, 1))
	assert.ErrorIs(t, err, ErrBadDescriptor)

	_, err = s.Write(1024, []byte("x"))
	assert.ErrorIs(t, err, ErrBadDescriptor)
}

func TestHostFDIsNeverIntercepted(t *testing.T) {
	s := newScenarioStore(t, 4)
	ok, _ := s.InterceptFD(3)
	assert.False(t, ok)
}

func TestAppendSeeksToEndOfFile(t *testing.T) {
	s := newScenarioStore(t, 4)
	fd, err := s.Open("/tmp/g", OCreat|ORDWR)
	require.NoError(t, err)
	_, err = s.Write(fd, []byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Close(fd))

	fd2, err := s.Open("/tmp/g", ORDWR|OAppend)
	require.NoError(t, err)
	assert.Equal(t, fd, fd2)

	n, err := s.Write(fd2, []byte("de"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	size, err := s.Stat("/tmp/g")
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)
}

func TestTruncateExactMultipleOverretainsOneChunk(t *testing.T) {
	s := newScenarioStore(t, 4)
	fid, err := s.sb.Files.Allocate("/tmp/h")
	require.NoError(t, err)
	id0, _ := s.sb.Chunks.Alloc()
	id1, _ := s.sb.Chunks.Alloc()
	s.sb.Files.AppendChunk(fid, id0)
	s.sb.Files.AppendChunk(fid, id1)

	s.truncateFid(fid, int64(s.chunkSize()))

	assert.Equal(t, 2, s.sb.Files.ChunksLen(fid))
}

func TestUnlinkReclaimsChunksAndFid(t *testing.T) {
	s := newScenarioStore(t, 4)
	fd, err := s.Open("/tmp/i", OCreat|ORDWR)
	require.NoError(t, err)
	_, err = s.Write(fd, make([]byte, 2*1048576))
	require.NoError(t, err)

	freeChunksBefore := s.sb.Chunks.FreeLen()
	freeFidsBefore := s.sb.Files.FreeLen()

	require.NoError(t, s.Unlink("/tmp/i"))

	assert.Equal(t, freeChunksBefore+2, s.sb.Chunks.FreeLen())
	assert.Equal(t, freeFidsBefore+1, s.sb.Files.FreeLen())
}

func TestRenameIdentityPreservesReadsThroughOldDescriptor(t *testing.T) {
	s := newScenarioStore(t, 4)
	fd, err := s.Open("/tmp/j", OCreat|ORDWR)
	require.NoError(t, err)
	_, err = s.Write(fd, []byte("payload"))
	require.NoError(t, err)
	_, err = s.Lseek(fd, 0, SeekSet)
	require.NoError(t, err)

	require.NoError(t, s.Rename("/tmp/j", "/tmp/k"))

	buf := make([]byte, len("payload"))
	n, err := s.Read(fd, buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))

	_, err = s.Stat("/tmp/j")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Stat("/tmp/k")
	assert.NoError(t, err)
}

func TestFsyncAndFdatasyncAreNoopsOnValidDescriptor(t *testing.T) {
	s := newScenarioStore(t, 4)
	fd, err := s.Open("/tmp/l", OCreat|ORDWR)
	require.NoError(t, err)

	assert.NoError(t, s.Fsync(fd))
	assert.NoError(t, s.Fdatasync(fd))
}

func TestCreatIsUnsupportedForStoreOwnedPath(t *testing.T) {
	s := newScenarioStore(t, 4)
	_, err := s.Creat("/tmp/m")
	assert.ErrorIs(t, err, ErrUnsupported)
}
