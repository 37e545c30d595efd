package storage

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckFreeSpace verifies that the filesystem holding dir has at least
// min bytes available. The directory must exist.
func CheckFreeSpace(dir string, min uint64) error {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return fmt.Errorf("failed to check disk space: %w", err)
	}

	available := stat.Bavail * uint64(stat.Bsize)
	if available < min {
		return fmt.Errorf("insufficient disk space: %d MB available, %d MB required",
			available/(1024*1024), min/(1024*1024))
	}

	return nil
}
