//go:build linux

package platform

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the birth time of path using statx(2).
// Kernels or filesystems without STATX_BTIME fall back to the modification time.
func CreationTime(path string, info fs.FileInfo) time.Time {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx); err == nil &&
		stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return info.ModTime()
}
