package store

import (
	"github.com/hpc/cruise/internal/util"
	"golang.org/x/sys/unix"
)

// POSIX open(2) flags relevant to store-owned paths (spec §4.9). Re-exported
// as the unix package's values so callers building the flags bitmask for a
// host open(2) call and a store-owned Open call use exactly the same bits.
const (
	OCreat  = unix.O_CREAT
	OExcl   = unix.O_EXCL
	OTrunc  = unix.O_TRUNC
	OAppend = unix.O_APPEND
	ORDWR   = unix.O_RDWR
	OWronly = unix.O_WRONLY
)

// lseek(2) whence values (spec §4.9), numerically identical to io.SeekStart/
// SeekCurrent/SeekEnd and to unix.SEEK_*.
const (
	SeekSet = 0
	SeekCur = 1
	SeekEnd = 2
)

// chunkMask and chunkBits are derived from the live layout on every call
// rather than cached, since MaxChunksPerFile/ChunkBits are fixed for the
// lifetime of a Store but reading them through cfg keeps this file free of
// duplicated state.
func (s *Store) chunkBits() int { return s.cfg.ChunkBits }
func (s *Store) chunkSize() int { return 1 << s.cfg.ChunkBits }
func (s *Store) chunkMask() int { return s.chunkSize() - 1 }

// Open implements spec §4.9's open(): O_CREAT (allocate a fid if absent),
// O_EXCL with O_CREAT (EEXIST if present), O_TRUNC with O_RDWR|O_WRONLY
// (truncate to zero), O_APPEND (seek to end). Returns the biased descriptor.
func (s *Store) Open(path string, flags int) (int, error) {
	if err := s.ensureInit(); err != nil {
		return -1, err
	}
	if util.IsUnsupportedObjectName(path) {
		return -1, newErr(KindUnsupported, "open", path)
	}
	if len(path)+1 > s.cfg.MaxFilenameLen {
		return -1, newErr(KindNameTooLong, "open", path)
	}

	var pos int64
	fid, ok := s.sb.Files.Lookup(path)
	if !ok {
		if flags&OCreat == 0 {
			return -1, newErr(KindNotFound, "open", path)
		}
		newFid, err := s.sb.Files.Allocate(path)
		if err != nil {
			s.log.Warnf("open %s: fid pool exhausted", path)
			return -1, newErr(KindNoSpace, "open", path)
		}
		fid = newFid
		s.pos[fid] = 0
	} else {
		if flags&OCreat != 0 && flags&OExcl != 0 {
			return -1, newErr(KindExists, "open", path)
		}
		if flags&OTrunc != 0 && flags&(ORDWR|OWronly) != 0 {
			s.truncateFid(fid, 0)
		}
		if flags&OAppend != 0 {
			pos = s.sb.Files.Size(fid)
		}
	}

	s.pos[fid] = pos
	return fid + s.fdBias, nil
}

// Creat mirrors the original's creat()/creat64(): unconditionally
// unsupported for a store-owned path, even though Open(path, OCreat) is
// fully supported (spec §4.9+ recovered detail). Callers should use Open.
func (s *Store) Creat(path string) (int, error) {
	if err := s.ensureInit(); err != nil {
		return -1, err
	}
	s.log.Warnf("creat %s: not supported, use Open with OCreat", path)
	return -1, newErr(KindUnsupported, "creat", path)
}

// Close validates the descriptor and returns nil. It does not reclaim the
// fid: files persist until Unlink (spec §4.9).
func (s *Store) Close(fd int) error {
	if _, ok := s.fidFromFD(fd); !ok {
		return newErr(KindBadDescriptor, "close", "")
	}
	return nil
}

// Read implements spec §4.9's read(): clamps count to the bytes remaining
// before size, advances pos by the clamped amount, and returns 0 (not an
// error) at EOF.
func (s *Store) Read(fd int, buf []byte) (int, error) {
	fid, ok := s.fidFromFD(fd)
	if !ok {
		return -1, newErr(KindBadDescriptor, "read", "")
	}

	size := s.sb.Files.Size(fid)
	oldPos := s.pos[fid]
	newPos := oldPos + int64(len(buf))
	if newPos > size {
		newPos = size
	}
	n := int(newPos - oldPos)
	s.pos[fid] = newPos
	if n <= 0 {
		return 0, nil
	}

	s.walkChunks(fid, oldPos, buf[:n], s.sb.Chunks.Chunk, readInto)
	return n, nil
}

// Write implements spec §4.9's write() and the extension policy of §4.7,
// including the documented, unfixed behavior: size is extended before
// chunks are allocated, and a partial allocation on ENOSPC is not rolled
// back (spec §9 Open Question, preserved per DESIGN.md).
func (s *Store) Write(fd int, buf []byte) (int, error) {
	fid, ok := s.fidFromFD(fd)
	if !ok {
		return -1, newErr(KindBadDescriptor, "write", "")
	}

	oldPos := s.pos[fid]
	newPos := oldPos + int64(len(buf))
	s.pos[fid] = newPos

	if newPos > s.sb.Files.Size(fid) {
		s.sb.Files.SetSize(fid, newPos)

		maxSize := int64(s.sb.Files.ChunksLen(fid)) << uint(s.chunkBits())
		for newPos > maxSize {
			id, err := s.sb.Chunks.Alloc()
			if err != nil {
				s.log.Warnf("write fid=%d: chunk pool exhausted at size=%d", fid, newPos)
				return -1, newErr(KindNoSpace, "write", "")
			}
			s.sb.Files.AppendChunk(fid, id)
			maxSize += int64(s.chunkSize())
		}
	}

	s.walkChunks(fid, oldPos, buf, s.sb.Chunks.Chunk, writeFrom)
	return len(buf), nil
}

// chunkWalkFn copies between src and the chunk-local window [r, r+n).
type chunkWalkFn func(dst []byte, chunkWindow []byte)

func readInto(dst []byte, chunkWindow []byte)  { copy(dst, chunkWindow) }
func writeFrom(src []byte, chunkWindow []byte) { copy(chunkWindow, src) }

// walkChunks implements the chunk-boundary-crossing address translation of
// spec §4.6: logical offset oldPos maps to chunk index k = oldPos>>bits and
// in-chunk offset r = oldPos&mask; each step advances k by one chunk with
// r = 0 thereafter. chunkOf resolves a physical chunk id to its backing
// bytes; apply copies between buf and that window, in buf order.
func (s *Store) walkChunks(fid int, oldPos int64, buf []byte, chunkOf func(int) []byte, apply chunkWalkFn) {
	k := int(oldPos >> uint(s.chunkBits()))
	r := int(oldPos) & s.chunkMask()
	done := 0
	for done < len(buf) {
		physical := s.sb.Files.ChunkID(fid, k)
		window := chunkOf(physical)[r:]
		n := len(buf) - done
		if n > len(window) {
			n = len(window)
		}
		apply(buf[done:done+n], window[:n])
		done += n
		k++
		r = 0
	}
}

// Lseek implements SEEK_SET/SEEK_CUR/SEEK_END (relative to size). As in the
// original, results are not validated against going negative (spec §4.9);
// that is left undefined for the caller.
func (s *Store) Lseek(fd int, offset int64, whence int) (int64, error) {
	fid, ok := s.fidFromFD(fd)
	if !ok {
		return -1, newErr(KindBadDescriptor, "lseek", "")
	}

	cur := s.pos[fid]
	switch whence {
	case SeekSet:
		cur = offset
	case SeekCur:
		cur += offset
	case SeekEnd:
		cur = s.sb.Files.Size(fid) + offset
	}
	s.pos[fid] = cur
	return cur, nil
}

// truncateFid implements spec §4.8. target_chunks over-retains by one chunk
// when length is an exact multiple of CHUNK_SIZE — preserved per DESIGN.md's
// Open Question decision, pinning the original's behavior.
func (s *Store) truncateFid(fid int, length int64) {
	var targetChunks int64
	if length > 0 {
		targetChunks = (length >> uint(s.chunkBits())) + 1
	}
	for int64(s.sb.Files.ChunksLen(fid)) > targetChunks {
		id := s.sb.Files.PopChunk(fid)
		s.sb.Chunks.Release(id)
	}
	s.sb.Files.SetSize(fid, length)
}

// Truncate looks up path and applies truncateFid (spec §4.8/§4.10).
func (s *Store) Truncate(path string, length int64) error {
	if err := s.ensureInit(); err != nil {
		return err
	}
	fid, ok := s.sb.Files.Lookup(path)
	if !ok {
		return newErr(KindNotFound, "truncate", path)
	}
	s.truncateFid(fid, length)
	return nil
}

// Unlink truncates fid to zero (releasing all its chunks) and releases the
// fid slot itself (spec §4.9).
func (s *Store) Unlink(path string) error {
	if err := s.ensureInit(); err != nil {
		return err
	}
	fid, ok := s.sb.Files.Lookup(path)
	if !ok {
		return newErr(KindNotFound, "unlink", path)
	}
	s.truncateFid(fid, 0)
	s.sb.Files.Release(fid)
	return nil
}

// Rename implements spec §4.9: validates old exists and new does not,
// validates the new name's length, and overwrites the name buffer in place.
// fid, chunks and any descriptor's pos are unchanged (spec P7). Renaming
// across the store boundary (exactly one of old/new under the mount prefix)
// fails with ErrCrossBoundary.
func (s *Store) Rename(oldPath, newPath string) error {
	if err := s.ensureInit(); err != nil {
		return err
	}
	if s.InterceptPath(oldPath) != s.InterceptPath(newPath) {
		return newErr(KindCrossBoundary, "rename", oldPath)
	}
	if util.IsUnsupportedObjectName(newPath) {
		return newErr(KindUnsupported, "rename", newPath)
	}

	fid, ok := s.sb.Files.Lookup(oldPath)
	if !ok {
		return newErr(KindNotFound, "rename", oldPath)
	}
	if _, exists := s.sb.Files.Lookup(newPath); exists {
		return newErr(KindExists, "rename", newPath)
	}
	if len(newPath)+1 > s.cfg.MaxFilenameLen {
		return newErr(KindNameTooLong, "rename", newPath)
	}
	return s.sb.Files.Rename(fid, newPath)
}

// Stat returns the size-only result spec §4.9 describes; all other stat
// fields are the caller's responsibility to leave at their zero default.
func (s *Store) Stat(path string) (size int64, err error) {
	if err := s.ensureInit(); err != nil {
		return 0, err
	}
	fid, ok := s.sb.Files.Lookup(path)
	if !ok {
		return 0, newErr(KindNotFound, "stat", path)
	}
	return s.sb.Files.Size(fid), nil
}

// Fsync is a no-op returning success: memory is already coherent with the
// abstraction (spec §4.9).
func (s *Store) Fsync(fd int) error {
	if _, ok := s.fidFromFD(fd); !ok {
		return newErr(KindBadDescriptor, "fsync", "")
	}
	return nil
}

// Fdatasync is a no-op returning success, identical to Fsync (spec §4.9).
func (s *Store) Fdatasync(fd int) error {
	return s.Fsync(fd)
}
