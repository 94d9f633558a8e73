// Package filetable implements the File Table component: the file-name
// table, the file-meta table (per-file size and ordered chunk-id list), and
// the free-fid stack that allocates and releases file-id slots. FileSlot and
// FileMeta at the same index are always paired, as required by spec §3.
package filetable

import (
	"encoding/binary"
	"errors"

	"github.com/hpc/cruise/internal/stack"
)

// ErrNameTooLong is returned by Allocate/Rename when a path, including its
// nul terminator, would not fit MAX_FILENAME bytes.
var ErrNameTooLong = errors.New("filetable: name too long")

// slot layout: [0] in_use flag, [1:1+maxName] nul-terminated name bytes.
func slotBytes(maxName int) int { return 1 + maxName }

// meta layout: [0:8] size int64, [8:16] chunks int64, [16:16+4*maxChunksPerFile] chunk ids (int32).
func metaBytes(maxChunksPerFile int) int { return 16 + 4*maxChunksPerFile }

// Table is a borrowed view over the name-table, meta-table, and free-fid
// stack partitions of a superblock.
type Table struct {
	maxFiles         int
	maxFilenameLen   int
	maxChunksPerFile int
	names            []byte
	metas            []byte
	free             stack.IndexStack
}

// New wraps the three arena partitions into a Table. It performs no
// initialization: names/metas content for fids still on the free stack is
// undefined until Allocate assigns them.
func New(names, metas []byte, maxFiles, maxFilenameLen, maxChunksPerFile int, free stack.IndexStack) *Table {
	return &Table{
		maxFiles:         maxFiles,
		maxFilenameLen:   maxFilenameLen,
		maxChunksPerFile: maxChunksPerFile,
		names:            names[:maxFiles*slotBytes(maxFilenameLen)],
		metas:            metas[:maxFiles*metaBytes(maxChunksPerFile)],
		free:             free,
	}
}

func (t *Table) slot(fid int) []byte {
	n := slotBytes(t.maxFilenameLen)
	return t.names[fid*n : fid*n+n]
}

func (t *Table) meta(fid int) []byte {
	n := metaBytes(t.maxChunksPerFile)
	return t.metas[fid*n : fid*n+n]
}

// MaxFiles returns the file-table capacity (MAX_FILES).
func (t *Table) MaxFiles() int { return t.maxFiles }

// MaxChunksPerFile returns the per-file chunk-id list capacity.
func (t *Table) MaxChunksPerFile() int { return t.maxChunksPerFile }

// FreeLen reports how many fids remain unallocated.
func (t *Table) FreeLen() int { return t.free.Len() }

// InUse reports whether fid currently names a file.
func (t *Table) InUse(fid int) bool {
	return t.slot(fid)[0] == 1
}

// Name returns the path stored for fid. Only meaningful when InUse(fid).
func (t *Table) Name(fid int) string {
	s := t.slot(fid)[1:]
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (t *Table) setName(fid int, path string) error {
	if len(path)+1 > t.maxFilenameLen {
		return ErrNameTooLong
	}
	s := t.slot(fid)
	s[0] = 1
	name := s[1:]
	for i := range name {
		name[i] = 0
	}
	copy(name, path)
	return nil
}

// Lookup performs the linear, first-match scan spec §4.5 requires, returning
// (-1, false) when path names no in-use file.
func (t *Table) Lookup(path string) (fid int, ok bool) {
	for i := 0; i < t.maxFiles; i++ {
		if t.InUse(i) && t.Name(i) == path {
			return i, true
		}
	}
	return -1, false
}

// Allocate pops a free fid, marks it in use, stores path, and zeroes its
// paired meta (size=0, chunks=0). It returns stack.ErrEmpty (surfaced as
// ENOSPC by the caller) when the fid pool is exhausted, or ErrNameTooLong
// without consuming a fid when path does not fit.
//
// Caller must have already validated len(path)+1 <= MAX_FILENAME per spec
// §4.5, but Allocate re-checks defensively and leaves the free stack
// untouched on that failure path.
func (t *Table) Allocate(path string) (int, error) {
	if len(path)+1 > t.maxFilenameLen {
		return -1, ErrNameTooLong
	}
	fid, err := t.free.Pop()
	if err != nil {
		return -1, err
	}
	if err := t.setName(fid, path); err != nil {
		// Cannot happen given the check above, but never leak the fid.
		t.free.Push(fid)
		return -1, err
	}
	m := t.meta(fid)
	binary.LittleEndian.PutUint64(m[0:8], 0)
	binary.LittleEndian.PutUint64(m[8:16], 0)
	return fid, nil
}

// Rename overwrites the name buffer of fid in place. fid and its chunk list
// are unchanged; descriptors referring to the file remain valid (spec P7).
func (t *Table) Rename(fid int, newPath string) error {
	return t.setName(fid, newPath)
}

// Release clears in_use and returns fid to the free stack. The caller must
// have already released all of the file's chunks (via Meta truncation to
// zero chunks).
func (t *Table) Release(fid int) {
	t.slot(fid)[0] = 0
	t.free.Push(fid)
}

// Size returns the current byte size of fid's file.
func (t *Table) Size(fid int) int64 {
	return int64(binary.LittleEndian.Uint64(t.meta(fid)[0:8]))
}

// SetSize sets the byte size of fid's file.
func (t *Table) SetSize(fid int, size int64) {
	binary.LittleEndian.PutUint64(t.meta(fid)[0:8], uint64(size))
}

// ChunksLen returns the number of valid entries in fid's chunk-id list.
func (t *Table) ChunksLen(fid int) int {
	return int(binary.LittleEndian.Uint64(t.meta(fid)[8:16]))
}

func (t *Table) setChunksLen(fid, n int) {
	binary.LittleEndian.PutUint64(t.meta(fid)[8:16], uint64(n))
}

// ChunkID returns the k-th physical chunk index owned by fid.
func (t *Table) ChunkID(fid, k int) int {
	m := t.meta(fid)
	off := 16 + 4*k
	return int(binary.LittleEndian.Uint32(m[off : off+4]))
}

// AppendChunk appends a physical chunk index to fid's chunk-id list,
// growing ChunksLen() by one. Returns false if the list is already at
// MAX_CHUNKS_PER_FILE capacity (a configuration error, not a runtime one:
// spec §4 chooses MAX_CHUNKS_PER_FILE so one file may cover the whole
// arena).
func (t *Table) AppendChunk(fid, chunkID int) bool {
	n := t.ChunksLen(fid)
	if n >= t.maxChunksPerFile {
		return false
	}
	m := t.meta(fid)
	off := 16 + 4*n
	binary.LittleEndian.PutUint32(m[off:off+4], uint32(chunkID))
	t.setChunksLen(fid, n+1)
	return true
}

// PopChunk removes and returns the last physical chunk index from fid's
// chunk-id list, shrinking ChunksLen() by one.
func (t *Table) PopChunk(fid int) int {
	n := t.ChunksLen(fid) - 1
	id := t.ChunkID(fid, n)
	t.setChunksLen(fid, n)
	return id
}
