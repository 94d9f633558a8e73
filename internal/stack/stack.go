// Package stack implements the fixed-capacity LIFO free-list allocator used
// to manage both the free file-id pool and the free chunk-id pool. It is a
// typed view over a caller-supplied byte region: the region is fully
// self-describing, so a process that attaches to an already-initialized
// superblock can reconstruct the stack without any separate header.
package stack

import (
	"encoding/binary"
	"errors"
)

// header fields, little-endian int64: capacity, count.
const headerWords = 2
const headerBytes = headerWords * 8

// ErrEmpty is returned by Pop when the stack holds no indices.
var ErrEmpty = errors.New("stack: empty")

// Bytes returns the byte footprint of a stack with the given capacity. It is
// a pure function of cap, independent of the region's current contents, so
// callers can lay out a superblock partition before any stack exists.
func Bytes(capacity int) int {
	return headerBytes + capacity*8
}

// IndexStack is a LIFO of small integer indices backed by a borrowed byte
// slice. All mutating methods operate in place on region; IndexStack itself
// holds no state beyond the borrowed slice.
type IndexStack struct {
	region []byte
}

// Init writes a valid empty-freelist header at region and then pushes
// capacity-1, capacity-2, ..., 0, so that the first `capacity` pops yield
// 0, 1, ..., capacity-1 in ascending order. That ordering is relied on by
// tests that inspect the first allocated fid (spec P8 scenarios assume fid 0
// is handed out first).
//
// region must be at least Bytes(capacity) long. Init is only ever called by
// the process that creates the superblock; attaching processes must not
// call it again (doing so would hand out already-claimed indices).
func Init(region []byte, capacity int) IndexStack {
	s := IndexStack{region: region[:Bytes(capacity)]}
	binary.LittleEndian.PutUint64(s.region[0:8], uint64(capacity))
	binary.LittleEndian.PutUint64(s.region[8:16], 0)
	for i := capacity - 1; i >= 0; i-- {
		s.push(i)
	}
	return s
}

// Attach wraps an already-initialized region without touching its contents,
// for a process that did not create the superblock.
func Attach(region []byte, capacity int) IndexStack {
	return IndexStack{region: region[:Bytes(capacity)]}
}

func (s IndexStack) capacity() int {
	return int(binary.LittleEndian.Uint64(s.region[0:8]))
}

func (s IndexStack) count() int {
	return int(binary.LittleEndian.Uint64(s.region[8:16]))
}

func (s IndexStack) setCount(n int) {
	binary.LittleEndian.PutUint64(s.region[8:16], uint64(n))
}

func (s IndexStack) slot(i int) []byte {
	off := headerBytes + i*8
	return s.region[off : off+8]
}

// Len reports the number of indices currently on the stack.
func (s IndexStack) Len() int {
	return s.count()
}

// push is the unchecked internal primitive used by Init.
func (s IndexStack) push(id int) {
	n := s.count()
	binary.LittleEndian.PutUint64(s.slot(n), uint64(id))
	s.setCount(n + 1)
}

// Push appends id to the stack. It fails silently (a no-op) if the stack is
// already at the capacity it was initialized with, matching the original
// allocator's contract: a correctly-used client never releases more indices
// than it owns, so overpush cannot occur in practice.
func (s IndexStack) Push(id int) {
	if s.count() >= s.capacity() {
		return
	}
	s.push(id)
}

// Pop removes and returns the top index, or ErrEmpty if the stack has
// nothing to give — the condition that surfaces as ENOSPC upstream.
func (s IndexStack) Pop() (int, error) {
	n := s.count()
	if n == 0 {
		return -1, ErrEmpty
	}
	n--
	id := int(binary.LittleEndian.Uint64(s.slot(n)))
	s.setCount(n)
	return id, nil
}
