package pagemap

import (
	"io"
	"os"
	"sync/atomic"
	"unsafe"
)

// MapMut is a read-write mapping of one or more sequential pages. It owns
// the underlying region and is responsible for unmapping it, either through
// Close or by being consumed by MakeReadOnly.
type MapMut struct {
	// data is the logical window requested by the caller. Its pointer may
	// sit up to one page past the true mapping start; bounds() recovers the
	// OS-level region from the window alone.
	data   []byte
	closed atomic.Bool
}

func openFileUnchecked(f *os.File, offset int64, length int, prot Protect) ([]byte, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if length <= 0 {
		return nil, ErrInvalidSize
	}
	ps := pageSize()
	roff := truncateOff(offset, ps)
	head := int(offset - roff)
	data, err := osMapFile(f, roff, roundTo(length+head, ps), prot)
	if err != nil {
		return nil, err
	}
	return data[head : head+length], nil
}

func openFileChecked(f *os.File, offset int64, length int, prot Protect) ([]byte, error) {
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if length <= 0 {
		return nil, ErrInvalidSize
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if offset+int64(length) > fi.Size() {
		return nil, &RangeError{Offset: offset, Length: length, FileSize: fi.Size()}
	}
	return openFileUnchecked(f, offset, length, prot)
}

// OpenMut maps the window [offset, offset+length) of f read-write and
// shared. Writes reach the backing file and other mappers of the same
// range. The window must lie within the file's current size.
func OpenMut(f *os.File, offset int64, length int) (*MapMut, error) {
	data, err := openFileChecked(f, offset, length, ProtectReadWrite)
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// OpenMutUnchecked is OpenMut without the file-size validation.
//
// The caller guarantees the window is, or will become before use, valid for
// the file. This is useful when the range is already known to be valid, or
// when it will be extended before the mapping is touched. Violating the
// precondition is undefined behavior at the OS level, not a reported error.
func OpenMutUnchecked(f *os.File, offset int64, length int) (*MapMut, error) {
	data, err := openFileUnchecked(f, offset, length, ProtectReadWrite)
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// OpenCopy maps the window [offset, offset+length) of f copy-on-write.
// Reads initially share the file's pages; writes are redirected to
// process-private copies and never reach the backing file or other mappers
// of the same range.
func OpenCopy(f *os.File, offset int64, length int) (*MapMut, error) {
	data, err := openFileChecked(f, offset, length, ProtectReadCopy)
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// OpenCopyUnchecked is OpenCopy without the file-size validation. The same
// caller-guaranteed precondition as OpenMutUnchecked applies.
func OpenCopyUnchecked(f *os.File, offset int64, length int) (*MapMut, error) {
	data, err := openFileUnchecked(f, offset, length, ProtectReadCopy)
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// Anon creates an anonymous read-write mapping at least as large as hint.
// The realized length is hint rounded up to a page multiple; callers must
// index via Len(), not the hint.
func Anon(hint int) (*MapMut, error) {
	if hint <= 0 {
		return nil, ErrInvalidSize
	}
	data, err := osMapAnon(Round(hint))
	if err != nil {
		return nil, err
	}
	return &MapMut{data: data}, nil
}

// FromPtrMut wraps an already-mapped region as a MapMut without any
// validation.
//
// This does not know or care whether ptr and length describe a live
// mapping: ptr may be misaligned, length may not match the region, or the
// memory may belong to some other allocation system entirely. The caller
// guarantees all of it. The returned mapping takes ownership and will
// unmap the region on Close.
func FromPtrMut(ptr unsafe.Pointer, length int) *MapMut {
	return &MapMut{data: unsafe.Slice((*byte)(ptr), length)}
}

// bounds recovers the page-aligned OS-level region for the current window.
// Only valid while the mapping is open.
func (m *MapMut) bounds() (uintptr, int) {
	return boundsTo(uintptr(unsafe.Pointer(&m.data[0])), len(m.data), pageSize())
}

// Bytes returns the mutable logical window, or nil after Close.
// The slice is valid only until Close is called.
func (m *MapMut) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Len returns the length of the logical window in bytes.
func (m *MapMut) Len() int {
	if m.closed.Load() {
		return 0
	}
	return len(m.data)
}

// ReadAt implements io.ReaderAt over the logical window.
func (m *MapMut) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements io.WriterAt over the logical window.
func (m *MapMut) WriteAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, ErrOutOfBounds
	}
	n = copy(m.data[off:], p)
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Flush writes dirty pages in the mapped region back to f, honoring the
// requested durability mode. The whole page-aligned region containing the
// window is synchronized.
func (m *MapMut) Flush(f *os.File, mode Flush) error {
	if m.closed.Load() {
		return ErrClosed
	}
	ptr, n := m.bounds()
	return osFlush(ptr, f, n, mode)
}

// Advise provides hints to the kernel about how the memory will be
// accessed. Hints are advisory; platforms without an equivalent ignore
// them.
func (m *MapMut) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}

// Lock pins the mapped pages in physical memory, preventing them from
// being swapped out.
func (m *MapMut) Lock() error {
	if m.closed.Load() {
		return ErrClosed
	}
	ptr, n := m.bounds()
	return osLock(ptr, n)
}

// Unlock reverses the effect of Lock.
func (m *MapMut) Unlock() error {
	if m.closed.Load() {
		return ErrClosed
	}
	ptr, n := m.bounds()
	return osUnlock(ptr, n)
}

// reprotect consumes the mapping and changes the region's access rights.
// On success the region lives on under the returned window; on failure it
// is unmapped and gone. Unmap errors on the failure path have no caller to
// report to and are logged at debug level.
func (m *MapMut) reprotect(prot Protect) ([]byte, error) {
	if m.closed.Swap(true) {
		return nil, ErrClosed
	}
	data := m.data
	m.data = nil
	ptr, n := boundsTo(uintptr(unsafe.Pointer(&data[0])), len(data), pageSize())
	if err := osProtect(ptr, n, prot); err != nil {
		if uerr := osUnmap(ptr, n); uerr != nil {
			logger.Load().Debug("pagemap: unmap after failed reprotect", "error", uerr)
		}
		return nil, err
	}
	return data, nil
}

// MakeReadOnly consumes the mapping, reprotects the region to read-only
// and returns a Map over the same bytes. If reprotection fails the region
// is unmapped and the error returned; the mapping is not recoverable.
func (m *MapMut) MakeReadOnly() (*Map, error) {
	data, err := m.reprotect(ProtectReadOnly)
	if err != nil {
		return nil, err
	}
	return &Map{base: &MapMut{data: data}}, nil
}

// Close unmaps the region. It is idempotent; only the first call performs
// the unmap and reports its error.
func (m *MapMut) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	ptr, n := m.bounds()
	m.data = nil
	return osUnmap(ptr, n)
}
