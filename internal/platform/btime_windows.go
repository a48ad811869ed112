//go:build windows

package platform

import (
	"io/fs"
	"syscall"
	"time"
)

// CreationTime returns the NTFS creation time of the file
func CreationTime(_ string, info fs.FileInfo) time.Time {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, data.CreationTime.Nanoseconds())
	}
	return info.ModTime()
}
