package store

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Kind classifies a store error into one of the seven abstract conditions of
// spec §7. Each Kind maps to exactly one canonical POSIX errno (spec §4.10).
type Kind int

const (
	KindNotFound Kind = iota
	KindExists
	KindNameTooLong
	KindBadDescriptor
	KindNoSpace
	KindCrossBoundary
	KindUnsupported
)

// Error is a store-internal error carrying enough context (operation, path
// or descriptor) for logging, plus the canonical errno a future
// interposition layer would set. Never compared by pointer identity — use
// errors.Is against the Err* sentinels below, which Error.Is implements by
// Kind.
type Error struct {
	Kind Kind
	Op   string
	Path string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("store: %s %s: %s", e.Op, e.Path, e.kindString())
	}
	return fmt.Sprintf("store: %s: %s", e.Op, e.kindString())
}

// Is implements errors.Is matching by Kind, so errors.Is(err, ErrNotFound)
// is true for any *Error with Kind == KindNotFound regardless of Op/Path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func (e *Error) kindString() string {
	switch e.Kind {
	case KindNotFound:
		return "not found"
	case KindExists:
		return "already exists"
	case KindNameTooLong:
		return "name too long"
	case KindBadDescriptor:
		return "bad descriptor"
	case KindNoSpace:
		return "no space"
	case KindCrossBoundary:
		return "crosses store boundary"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Errno returns the canonical POSIX errno for e's Kind, per spec §4.10.
func (e *Error) Errno() int {
	switch e.Kind {
	case KindNotFound:
		return int(unix.ENOENT)
	case KindExists:
		return int(unix.EEXIST)
	case KindNameTooLong:
		return int(unix.ENAMETOOLONG)
	case KindBadDescriptor:
		return int(unix.EBADF)
	case KindNoSpace:
		return int(unix.ENOSPC)
	case KindCrossBoundary:
		return int(unix.EXDEV)
	case KindUnsupported:
		return int(unix.ENOSYS)
	default:
		return int(unix.EIO)
	}
}

// Sentinel errors for use with errors.Is; never returned directly (Op/Path
// are always empty on these) — operations construct their own *Error via
// newErr so logs carry context.
var (
	ErrNotFound      error = &Error{Kind: KindNotFound}
	ErrExists        error = &Error{Kind: KindExists}
	ErrNameTooLong   error = &Error{Kind: KindNameTooLong}
	ErrBadDescriptor error = &Error{Kind: KindBadDescriptor}
	ErrNoSpace       error = &Error{Kind: KindNoSpace}
	ErrCrossBoundary error = &Error{Kind: KindCrossBoundary}
	ErrUnsupported   error = &Error{Kind: KindUnsupported}
)

func newErr(kind Kind, op, path string) error {
	return &Error{Kind: kind, Op: op, Path: path}
}
