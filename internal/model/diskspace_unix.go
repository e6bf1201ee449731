//go:build darwin || linux

package model

import "golang.org/x/sys/unix"

// DiskSpace returns total and free bytes for the filesystem containing path
func DiskSpace(path string) (total, free int64) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0
	}

	total = int64(stat.Blocks) * int64(stat.Bsize)
	free = int64(stat.Bavail) * int64(stat.Bsize)
	return total, free
}
