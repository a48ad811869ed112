//go:build !linux && !darwin && !windows

package platform

import (
	"io/fs"
	"time"
)

// CreationTime falls back to the modification time on platforms without a birth time
func CreationTime(_ string, info fs.FileInfo) time.Time {
	return info.ModTime()
}
