//go:build darwin

package platform

import (
	"io/fs"
	"syscall"
	"time"
)

// CreationTime returns the birth time recorded in the stat buffer
func CreationTime(_ string, info fs.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
	}
	return info.ModTime()
}
