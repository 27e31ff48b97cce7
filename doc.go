// Package pagemap provides page-granular memory mapping for fast and safe
// memory-mapped IO.
//
// # Overview
//
// Operating systems only accept whole-page-aligned addresses and lengths for
// mapping, unmapping, reprotecting, and flushing, while callers usually want
// to address an arbitrary byte offset and length inside a file. Pagemap hides
// the alignment arithmetic: constructors map the page-aligned superset of the
// requested window and hand back a byte slice positioned exactly at the
// requested offset.
//
// # Usage
//
//	f, err := os.Open("segment.bin")
//	if err != nil { ... }
//	defer f.Close()
//
//	// Read-only view of 30 bytes starting at byte 33 of the file.
//	m, err := pagemap.Open(f, 33, 30)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// # Protection States
//
// Read-only and read-write mappings are distinct types. A Map exposes no
// mutating accessor; mutation requires converting it into a MapMut first:
//
//	mm, err := m.MakeMut()       // Map -> MapMut, reprotects the pages
//	ro, err := mm.MakeReadOnly() // MapMut -> Map
//
// Both conversions consume their receiver: afterwards the old value is
// closed and only the returned value owns the region. If reprotection fails,
// the region is unmapped and the error returned; the mapping is gone either
// way.
//
// # Anonymous Mappings
//
// Anon creates read-write mappings not backed by any file, for off-heap
// buffers outside the Go garbage collector's control:
//
//	mm, err := pagemap.Anon(1 << 20)
//
// The realized length is the hint rounded up to a page multiple; index via
// mm.Len(), not the hint.
//
// # Copy-On-Write Mappings
//
// OpenCopy maps a file range privately: reads initially share the file's
// pages, writes go to process-private copies and never reach the backing
// file or other mappers of the same range.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2), mprotect(2), msync(2), madvise(2)
//   - Windows: CreateFileMapping/MapViewOfFile, VirtualProtect,
//     FlushViewOfFile (madvise hints are a no-op)
//
// # Thread Safety
//
// A mapping is safe for concurrent read access. Close is idempotent and
// protected by atomic operations, but callers must ensure no goroutine
// touches Bytes() after Close returns. Writes through a shared file-backed
// MapMut are visible to other mappers of the same range per OS
// shared-mapping semantics; use OpenCopy to opt out.
package pagemap
