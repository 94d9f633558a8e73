package store

import "sync"

// LockingStore wraps a *Store with a single mutex so that multiple
// goroutines inside the same process can share it safely (spec §5: the
// core itself is single-threaded cooperative with no internal locks;
// callers that want the multi-threaded case serialize externally, and this
// is one way to do that). It is not a different store implementation —
// every call simply locks, delegates to the embedded *Store, and unlocks.
type LockingStore struct {
	mu sync.Mutex
	s  *Store
}

// NewLocking wraps s. s should not be used directly once wrapped, or the
// mutex stops meaning anything.
func NewLocking(s *Store) *LockingStore {
	return &LockingStore{s: s}
}

func (l *LockingStore) Mount(prefix string, rank int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Mount(prefix, rank)
}

func (l *LockingStore) InterceptPath(path string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.InterceptPath(path)
}

func (l *LockingStore) InterceptFD(fd int) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.InterceptFD(fd)
}

func (l *LockingStore) FDBias() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.FDBias()
}

func (l *LockingStore) Open(path string, flags int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Open(path, flags)
}

func (l *LockingStore) Creat(path string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Creat(path)
}

func (l *LockingStore) Close(fd int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Close(fd)
}

func (l *LockingStore) Read(fd int, buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Read(fd, buf)
}

func (l *LockingStore) Write(fd int, buf []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Write(fd, buf)
}

func (l *LockingStore) Lseek(fd int, offset int64, whence int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Lseek(fd, offset, whence)
}

func (l *LockingStore) Truncate(path string, length int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Truncate(path, length)
}

func (l *LockingStore) Unlink(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Unlink(path)
}

func (l *LockingStore) Rename(oldPath, newPath string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Rename(oldPath, newPath)
}

func (l *LockingStore) Stat(path string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Stat(path)
}

func (l *LockingStore) Fsync(fd int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Fsync(fd)
}

func (l *LockingStore) Fdatasync(fd int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Fdatasync(fd)
}
