//go:build unix

package pst

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func mmapFile(f *os.File, size int64) ([]byte, error) {
	if size == 0 || int64(int(size)) != size {
		return nil, errMmapUnsupported
	}

	b, err := unix.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	// lookups jump around the file
	if err := unix.Madvise(b, syscall.MADV_RANDOM); err != nil && err != syscall.ENOSYS {
		_ = unix.Munmap(b)
		return nil, err
	}
	return b, nil
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
