// Package superblock partitions a single shared-memory arena into the
// fixed-offset regions described by spec §4.2: free-fid stack, file-name
// table, file-meta table, free-chunk stack, and chunk data array, in that
// order. The first process to create the segment initializes both stacks;
// subsequent attachers reconstruct the same views over the existing bytes
// without touching them.
package superblock

import (
	"github.com/hpc/cruise/internal/chunkstore"
	"github.com/hpc/cruise/internal/filetable"
	"github.com/hpc/cruise/internal/stack"
)

// Layout is the set of fixed, build-time configuration constants that
// determine the arena's partition offsets (spec §3/§4.2). Two processes
// attaching to the same segment must agree on Layout bit-for-bit; there is
// no header or version field (spec §6, flagged as a design weakness in §9).
type Layout struct {
	MaxFiles         int
	MaxFilenameLen   int
	MaxChunksPerFile int
	MaxChunks        int
	ChunkBits        int
}

// ChunkSize returns CHUNK_SIZE = 1 << ChunkBits.
func (l Layout) ChunkSize() int { return 1 << l.ChunkBits }

// Size returns the total arena size required by this layout: the exact sum
// from spec §4.2.
func (l Layout) Size() int {
	return stack.Bytes(l.MaxFiles) +
		l.MaxFiles*(1+l.MaxFilenameLen) +
		l.MaxFiles*(16+4*l.MaxChunksPerFile) +
		stack.Bytes(l.MaxChunks) +
		l.MaxChunks*l.ChunkSize
}

// Superblock is the assembled, partitioned view over one arena.
type Superblock struct {
	layout Layout
	Files  *filetable.Table
	Chunks *chunkstore.Store
}

// New partitions arena (which must be at least layout.Size() bytes) in the
// fixed order free-fid-stack, name-table, meta-table, free-chunk-stack,
// chunk-array. When owner is true (this process created the segment, per
// spec §4.2's "first process to create the segment also initializes both
// stacks"), both free stacks are freshly initialized; otherwise the existing
// contents are trusted and reconstructed as-is.
func New(arena []byte, layout Layout, owner bool) *Superblock {
	ptr := 0

	fidStackRegion := arena[ptr : ptr+stack.Bytes(layout.MaxFiles)]
	ptr += stack.Bytes(layout.MaxFiles)

	names := arena[ptr : ptr+layout.MaxFiles*(1+layout.MaxFilenameLen)]
	ptr += layout.MaxFiles * (1 + layout.MaxFilenameLen)

	metas := arena[ptr : ptr+layout.MaxFiles*(16+4*layout.MaxChunksPerFile)]
	ptr += layout.MaxFiles * (16 + 4*layout.MaxChunksPerFile)

	chunkStackRegion := arena[ptr : ptr+stack.Bytes(layout.MaxChunks)]
	ptr += stack.Bytes(layout.MaxChunks)

	chunkData := arena[ptr : ptr+layout.MaxChunks*layout.ChunkSize()]

	var fidStack, chunkStack stack.IndexStack
	if owner {
		fidStack = stack.Init(fidStackRegion, layout.MaxFiles)
		chunkStack = stack.Init(chunkStackRegion, layout.MaxChunks)
	} else {
		fidStack = stack.Attach(fidStackRegion, layout.MaxFiles)
		chunkStack = stack.Attach(chunkStackRegion, layout.MaxChunks)
	}

	files := filetable.New(names, metas, layout.MaxFiles, layout.MaxFilenameLen, layout.MaxChunksPerFile, fidStack)
	chunks := chunkstore.New(chunkData, layout.ChunkSize(), layout.MaxChunks, chunkStack)

	return &Superblock{layout: layout, Files: files, Chunks: chunks}
}

// Layout returns the layout this superblock was built from.
func (s *Superblock) Layout() Layout { return s.layout }
