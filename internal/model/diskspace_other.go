//go:build !darwin && !linux

package model

// DiskSpace is a stub on platforms without statfs
func DiskSpace(path string) (total, free int64) {
	return 0, 0
}
