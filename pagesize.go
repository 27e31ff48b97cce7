package pagemap

import "sync"

// pageSize returns the process-wide mapping granularity, queried from the
// OS once. All page sizes of interest are powers of two, which the mask
// arithmetic below relies on.
var pageSize = sync.OnceValue(osPageSize)

// PageSize returns the granularity the OS requires for mapping offsets and
// lengths. On Unix this is the system page size; on Windows it is the
// allocation granularity, which is what MapViewOfFile offsets must align to.
func PageSize() int {
	return pageSize()
}

// Truncate returns the largest page multiple less than or equal to n.
func Truncate(n int) int {
	return truncateTo(n, pageSize())
}

// Round returns the smallest page multiple greater than or equal to n.
func Round(n int) int {
	return roundTo(n, pageSize())
}

func truncateTo(n, ps int) int {
	return n &^ (ps - 1)
}

func roundTo(n, ps int) int {
	return truncateTo(n+ps-1, ps)
}

func truncateOff(off int64, ps int) int64 {
	return off &^ int64(ps-1)
}

// boundsTo recovers the page-aligned region containing the logical window
// [ptr, ptr+n). A mapping's exposed pointer is always offset forward from a
// page boundary by less than one page, so the window alone identifies the
// exact OS-level region and nothing else needs to be stored.
func boundsTo(ptr uintptr, n, ps int) (uintptr, int) {
	head := ptr & uintptr(ps-1)
	return ptr - head, roundTo(n+int(head), ps)
}
