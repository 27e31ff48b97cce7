package pagemap

import (
	"errors"
	"fmt"
)

// Protect describes the access rights requested when a region is first
// mapped or reprotected.
type Protect int

const (
	// ProtectReadOnly maps the region read-only. Writing through the
	// mapping faults.
	ProtectReadOnly Protect = iota
	// ProtectReadWrite maps the region read-write and shared: writes reach
	// the backing file and other mappers of the same range.
	ProtectReadWrite
	// ProtectReadCopy maps the region read-write and private
	// (copy-on-write): writes go to process-private pages and never reach
	// the backing file.
	ProtectReadCopy
)

// Flush describes the durability semantics of a flush request.
type Flush int

const (
	// FlushSync performs the write-back synchronously and returns only
	// once the dirty pages are durable.
	FlushSync Flush = iota
	// FlushAsync schedules the write-back and returns immediately.
	FlushAsync
)

// AccessPattern provides hints to the kernel about how the data will be
// accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

var (
	// ErrClosed is returned when attempting to use a mapping that has been
	// closed or consumed by a protection transition.
	ErrClosed = errors.New("pagemap: mapping is closed")
	// ErrInvalidSize is returned when the requested length is not positive.
	ErrInvalidSize = errors.New("pagemap: invalid size")
	// ErrInvalidOffset is returned when the offset is invalid (e.g. negative).
	ErrInvalidOffset = errors.New("pagemap: invalid offset")
	// ErrOutOfBounds is returned when attempting to access a region outside
	// the mapping.
	ErrOutOfBounds = errors.New("pagemap: out of bounds")
)

// RangeError indicates that a requested window exceeds the backing file.
// It is returned by the checked file constructors; the Unchecked variants
// skip the validation entirely.
type RangeError struct {
	Offset   int64
	Length   int
	FileSize int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pagemap: range [%d, %d) not in file of size %d",
		e.Offset, e.Offset+int64(e.Length), e.FileSize)
}
