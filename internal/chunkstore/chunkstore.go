// Package chunkstore implements the Chunk Store component of the arena: a
// fixed-size array of power-of-two byte chunks plus the free-chunk stack
// that tracks which of them are unused. It is the storage half of the
// allocator-plus-storage-engine described by the file store; internal/stack
// is the allocation half.
package chunkstore

import "github.com/hpc/cruise/internal/stack"

// Store is a borrowed view over the chunk-array partition of a superblock.
// It owns no memory of its own; every Chunk() call returns a window onto the
// arena passed to New.
type Store struct {
	chunkSize int
	chunks    [][]byte
	free      stack.IndexStack
}

// New wraps arena (exactly maxChunks*chunkSize bytes) and free (an
// already-initialized or attached free-chunk stack of capacity maxChunks)
// into a Store. It performs no initialization of its own: the free stack's
// initial contents determine which chunks are available, and arena's bytes
// are whatever the host shared-memory facility handed back (uninitialized,
// per spec §4.7 point 3 — chunk contents are never zeroed on allocation).
func New(arena []byte, chunkSize, maxChunks int, free stack.IndexStack) *Store {
	chunks := make([][]byte, maxChunks)
	for i := 0; i < maxChunks; i++ {
		chunks[i] = arena[i*chunkSize : (i+1)*chunkSize]
	}
	return &Store{chunkSize: chunkSize, chunks: chunks, free: free}
}

// ChunkSize returns the fixed chunk size in bytes (CHUNK_SIZE).
func (s *Store) ChunkSize() int {
	return s.chunkSize
}

// Cap returns the total number of chunk slots (MAX_CHUNKS).
func (s *Store) Cap() int {
	return len(s.chunks)
}

// FreeLen reports how many chunks are currently unallocated. Exposed for the
// bijection invariant (spec P2): len(in-use chunk ids) + FreeLen() ==
// Cap() at all times.
func (s *Store) FreeLen() int {
	return s.free.Len()
}

// Alloc pops one chunk index off the free stack. It returns
// stack.ErrEmpty when the arena is exhausted — the condition the caller
// surfaces as ENOSPC.
func (s *Store) Alloc() (int, error) {
	return s.free.Pop()
}

// Release returns a chunk index to the free stack. The caller must not
// reference id through Chunk after calling Release.
func (s *Store) Release(id int) {
	s.free.Push(id)
}

// Chunk returns the raw backing bytes for physical chunk id. Bytes beyond
// whatever has actually been written are not zero-initialized; reading them
// exposes whatever the arena happened to hold (spec §4.7 point 3, §9).
func (s *Store) Chunk(id int) []byte {
	return s.chunks[id]
}
