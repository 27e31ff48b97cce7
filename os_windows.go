//go:build windows

package pagemap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// osPageSize returns the allocation granularity, not the 4K hardware page
// size: MapViewOfFile offsets must align to allocation granularity.
func osPageSize() int {
	var si windows.SystemInfo
	windows.GetNativeSystemInfo(&si)
	return int(si.AllocationGranularity)
}

func protConsts(prot Protect) (page, access uint32) {
	switch prot {
	case ProtectReadWrite:
		return windows.PAGE_READWRITE, windows.FILE_MAP_READ | windows.FILE_MAP_WRITE
	case ProtectReadCopy:
		return windows.PAGE_WRITECOPY, windows.FILE_MAP_COPY
	default:
		return windows.PAGE_READONLY, windows.FILE_MAP_READ
	}
}

// osMapFile maps the granularity-aligned file range [offset, offset+length)
// with the given protection.
func osMapFile(f *os.File, offset int64, length int, prot Protect) ([]byte, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	page, access := protConsts(prot)

	// For shared writable mappings the section is sized to cover the whole
	// rounded range, extending the file if the tail page is partial. For
	// read-only and copy-on-write mappings the file cannot be extended; the
	// section keeps the file's size and the view is taken to the end of the
	// section, whose internal page rounding covers any partial tail.
	end := offset + int64(length)
	var maxSize int64
	viewLen := uintptr(length)
	if prot == ProtectReadWrite {
		maxSize = end
	} else if end > fi.Size() {
		viewLen = 0 // map to end of section
	}

	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, page,
		uint32(maxSize>>32), uint32(maxSize&0xffffffff), nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}
	// The view holds its own reference to the section.
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, access,
		uint32(offset>>32), uint32(offset&0xffffffff), viewLen)
	if err != nil {
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length), nil
}

// osMapAnon maps a pagefile-backed anonymous read-write region. Backing the
// region with a section instead of VirtualAlloc keeps teardown uniform:
// every mapping is released with UnmapViewOfFile.
func osMapAnon(length int) ([]byte, error) {
	h, err := windows.CreateFileMapping(windows.InvalidHandle, nil,
		windows.PAGE_READWRITE, uint32(int64(length)>>32), uint32(int64(length)&0xffffffff), nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}
	defer windows.CloseHandle(h)

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE,
		0, 0, uintptr(length))
	if err != nil {
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), length), nil
}

func osUnmap(ptr uintptr, length int) error {
	_ = length // UnmapViewOfFile releases the whole view
	if err := windows.UnmapViewOfFile(ptr); err != nil {
		return os.NewSyscallError("UnmapViewOfFile", err)
	}
	return nil
}

func osProtect(ptr uintptr, length int, prot Protect) error {
	page, _ := protConsts(prot)
	var old uint32
	if err := windows.VirtualProtect(ptr, uintptr(length), page, &old); err != nil {
		return os.NewSyscallError("VirtualProtect", err)
	}
	return nil
}

func osFlush(ptr uintptr, f *os.File, length int, mode Flush) error {
	if err := windows.FlushViewOfFile(ptr, uintptr(length)); err != nil {
		return os.NewSyscallError("FlushViewOfFile", err)
	}
	if mode == FlushSync {
		// FlushViewOfFile only schedules the write-back; durability needs
		// the file buffers flushed as well.
		if err := windows.FlushFileBuffers(windows.Handle(f.Fd())); err != nil {
			return os.NewSyscallError("FlushFileBuffers", err)
		}
	}
	return nil
}

// osAdvise is a no-op: Windows has no direct madvise equivalent. The OS
// page cache still handles sequential access well.
func osAdvise(data []byte, pattern AccessPattern) error {
	_ = data
	_ = pattern
	return nil
}

func osLock(ptr uintptr, length int) error {
	if err := windows.VirtualLock(ptr, uintptr(length)); err != nil {
		return os.NewSyscallError("VirtualLock", err)
	}
	return nil
}

func osUnlock(ptr uintptr, length int) error {
	if err := windows.VirtualUnlock(ptr, uintptr(length)); err != nil {
		return os.NewSyscallError("VirtualUnlock", err)
	}
	return nil
}
