// Package rlimit queries the host's soft open-file-descriptor limit, used to
// compute FD_BIAS (spec §3/§6): the additive offset that keeps every
// store-returned descriptor disjoint from real host descriptors.
package rlimit

import "golang.org/x/sys/unix"

// SoftNoFile returns the process's current (soft) RLIMIT_NOFILE, matching
// the original's `getrlimit(RLIMIT_NOFILE, ...).rlim_cur`.
func SoftNoFile() (int, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		return 0, err
	}
	return int(rlim.Cur), nil
}
