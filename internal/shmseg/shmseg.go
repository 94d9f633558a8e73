// Package shmseg implements the host shared-memory collaborator required by
// spec §6: create-exclusive / attach-existing semantics keyed by an integer,
// over SysV shared memory. It is the direct Go analogue of the original's
// scrmfs_get_shmblock: try to create the segment; if one already exists
// under the same key, attach to it instead, and let the caller decide
// whether this process is the "owner" responsible for running allocator
// initialization (spec §4.2: "The first process to create the segment also
// initializes both stacks; subsequent attachers skip initialization").
package shmseg

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// IPCPrivate is the default segment key (spec §4.2), equivalent to the
// original's use of IPC_PRIVATE. The mount call may instead derive a
// rank-specific key so that multiple ranks on the same host do not collide.
const IPCPrivate = 0

// Segment is an attached SysV shared-memory region.
type Segment struct {
	id    int
	Data  []byte
	Owner bool
}

// Acquire creates a new segment of size bytes under key, or attaches to an
// existing one if the key is already taken. Owner is true iff this call
// created the segment (and is therefore responsible for initializing the
// allocators laid out within it); it is false for every subsequent attacher.
func Acquire(key int, size int) (*Segment, error) {
	id, err := unix.SysvShmGet(key, size, unix.IPC_CREAT|unix.IPC_EXCL|0600)
	owner := true
	if err != nil {
		if err != unix.EEXIST {
			return nil, fmt.Errorf("shmseg: shmget create (key=%d, size=%d): %w", key, size, err)
		}
		owner = false
		id, err = unix.SysvShmGet(key, size, 0)
		if err != nil {
			return nil, fmt.Errorf("shmseg: shmget attach (key=%d): %w", key, err)
		}
	}

	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("shmseg: shmat (id=%d): %w", id, err)
	}

	return &Segment{id: id, Data: data, Owner: owner}, nil
}

// Detach releases this process's attachment to the segment. The segment
// itself outlives the process (spec §9: "the shared segment is not owned in
// the usual sense — it outlives the process"); Detach does not mark it for
// destruction.
func (s *Segment) Detach() error {
	return unix.SysvShmDetach(s.Data)
}
