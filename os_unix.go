//go:build unix

package pagemap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

func osPageSize() int {
	return os.Getpagesize()
}

// pageSlice rebuilds the page-aligned slice for a bounds()-derived region.
// The result matches the slice originally returned by unix.Mmap, which is
// what unix.Munmap expects.
func pageSlice(ptr uintptr, length int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), length)
}

func protFlags(prot Protect) (int, int) {
	switch prot {
	case ProtectReadWrite:
		return unix.PROT_READ | unix.PROT_WRITE, unix.MAP_SHARED
	case ProtectReadCopy:
		return unix.PROT_READ | unix.PROT_WRITE, unix.MAP_PRIVATE
	default:
		return unix.PROT_READ, unix.MAP_SHARED
	}
}

// osMapFile maps the page-aligned file range [offset, offset+length) with
// the given protection. offset and length must be page-aligned.
func osMapFile(f *os.File, offset int64, length int, prot Protect) ([]byte, error) {
	p, flags := protFlags(prot)
	data, err := unix.Mmap(int(f.Fd()), offset, length, p, flags)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return data, nil
}

// osMapAnon maps a page-aligned anonymous read-write region.
func osMapAnon(length int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return data, nil
}

func osUnmap(ptr uintptr, length int) error {
	if err := unix.Munmap(pageSlice(ptr, length)); err != nil {
		return os.NewSyscallError("munmap", err)
	}
	return nil
}

func osProtect(ptr uintptr, length int, prot Protect) error {
	p, _ := protFlags(prot)
	if err := unix.Mprotect(pageSlice(ptr, length), p); err != nil {
		return os.NewSyscallError("mprotect", err)
	}
	return nil
}

// osFlush synchronizes the page range against its backing file. msync
// addresses the mapping, not the descriptor, so f is unused here; it is
// part of the contract for the Windows backend.
func osFlush(ptr uintptr, f *os.File, length int, mode Flush) error {
	_ = f
	flag := unix.MS_SYNC
	if mode == FlushAsync {
		flag = unix.MS_ASYNC
	}
	if err := unix.Msync(pageSlice(ptr, length), flag); err != nil {
		return os.NewSyscallError("msync", err)
	}
	return nil
}

func osAdvise(data []byte, pattern AccessPattern) error {
	if len(data) == 0 {
		return nil
	}

	var advice int
	switch pattern {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	case AccessDontNeed:
		advice = unix.MADV_DONTNEED
	default:
		advice = unix.MADV_NORMAL
	}

	// On Linux, madvise requires page-aligned addresses. The logical window
	// may start mid-page; the hint is advisory and non-critical, so a
	// misalignment rejection is silently ignored.
	err := unix.Madvise(data, advice)
	if err == unix.EINVAL {
		return nil
	}
	return err
}

func osLock(ptr uintptr, length int) error {
	if err := unix.Mlock(pageSlice(ptr, length)); err != nil {
		return os.NewSyscallError("mlock", err)
	}
	return nil
}

func osUnlock(ptr uintptr, length int) error {
	if err := unix.Munlock(pageSlice(ptr, length)); err != nil {
		return os.NewSyscallError("munlock", err)
	}
	return nil
}
