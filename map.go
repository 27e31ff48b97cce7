package pagemap

import (
	"io"
	"os"
	"unsafe"
)

// Map is a read-only mapping of one or more sequential pages. It wraps a
// MapMut and exposes no mutating accessor; converting it back with MakeMut
// is the only path to mutation. The underlying pages are protected
// read-only, so writing through an aliased slice faults.
type Map struct {
	base *MapMut
}

// Open maps the window [offset, offset+length) of f read-only. The window
// must lie within the file's current size; otherwise a *RangeError is
// returned.
func Open(f *os.File, offset int64, length int) (*Map, error) {
	data, err := openFileChecked(f, offset, length, ProtectReadOnly)
	if err != nil {
		return nil, err
	}
	return &Map{base: &MapMut{data: data}}, nil
}

// OpenUnchecked is Open without the file-size validation.
//
// The caller guarantees the window is, or will become before use, valid
// for the file. Violating the precondition is undefined behavior at the OS
// level, not a reported error.
func OpenUnchecked(f *os.File, offset int64, length int) (*Map, error) {
	data, err := openFileUnchecked(f, offset, length, ProtectReadOnly)
	if err != nil {
		return nil, err
	}
	return &Map{base: &MapMut{data: data}}, nil
}

// OpenFile maps the whole file at path read-only. The file descriptor is
// not retained; the mapping stays valid after the file is closed.
func OpenFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > int64(maxInt) {
		return nil, ErrInvalidSize
	}
	return Open(f, 0, int(fi.Size()))
}

// FromPtr wraps an already-mapped region as a Map without any validation.
//
// This does not know or care whether ptr and length describe a live
// mapping; the caller guarantees all of it, including that the pages are
// readable. The returned mapping takes ownership and will unmap the region
// on Close. Generally don't use this unless you are entirely sure you are
// doing so correctly.
func FromPtr(ptr unsafe.Pointer, length int) *Map {
	return &Map{base: FromPtrMut(ptr, length)}
}

// Bytes returns the logical window, or nil after Close. The pages are
// mapped read-only: the slice must not be written to, and the slice is
// valid only until Close is called.
func (m *Map) Bytes() []byte {
	return m.base.Bytes()
}

// Len returns the length of the logical window in bytes.
func (m *Map) Len() int {
	return m.base.Len()
}

// ReadAt implements io.ReaderAt over the logical window.
func (m *Map) ReadAt(p []byte, off int64) (n int, err error) {
	return m.base.ReadAt(p, off)
}

// Advise provides hints to the kernel about how the memory will be
// accessed.
func (m *Map) Advise(pattern AccessPattern) error {
	return m.base.Advise(pattern)
}

// Lock pins the mapped pages in physical memory.
func (m *Map) Lock() error {
	return m.base.Lock()
}

// Unlock reverses the effect of Lock.
func (m *Map) Unlock() error {
	return m.base.Unlock()
}

// MakeMut consumes the mapping, reprotects the region to read-write and
// returns a MapMut over the same bytes. If reprotection fails the region
// is unmapped and the error returned; the mapping is not recoverable.
func (m *Map) MakeMut() (*MapMut, error) {
	data, err := m.base.reprotect(ProtectReadWrite)
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// Close unmaps the region. It is idempotent.
func (m *Map) Close() error {
	return m.base.Close()
}

var _ io.ReaderAt = (*Map)(nil)

const maxInt = int(^uint(0) >> 1)
