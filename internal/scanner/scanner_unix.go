//go:build !windows

package scanner

import (
	"io/fs"
	"os"
	"sync"
	"syscall"
)

// identity is the canonical (device, inode) pair of a filesystem object
type identity struct {
	dev, ino uint64
}

// deviceOf returns the device id of the filesystem containing path
func deviceOf(path string) (uint64, bool) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return 0, false
	}
	return uint64(stat.Dev), true
}

// resolveIdentity stats path (following symlinks) and returns its identity
// and whether it is a directory
func resolveIdentity(path string) (identity, bool, bool) {
	var stat syscall.Stat_t
	if err := syscall.Stat(path, &stat); err != nil {
		return identity{}, false, false
	}
	isDir := stat.Mode&syscall.S_IFMT == syscall.S_IFDIR
	return identity{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, isDir, true
}

// shouldSkipDir reports whether a directory must not be descended into:
// it sits on a different filesystem than the scan root (mount boundary,
// silently excluded) or its identity was already visited (firmlinks,
// hardlinked directories)
func shouldSkipDir(d fs.DirEntry, rootDev uint64, seen *sync.Map) bool {
	info, err := d.Info()
	if err != nil {
		return false
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}

	if rootDev != 0 && uint64(stat.Dev) != rootDev {
		return true
	}

	id := identity{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}
	if _, exists := seen.LoadOrStore(id, true); exists {
		return true
	}
	return false
}

// loopsInto reports whether the symlink at path resolves to a directory
// already visited on this walk
func loopsInto(path string, seen *sync.Map) bool {
	id, isDir, ok := resolveIdentity(path)
	if !ok || !isDir {
		return false
	}
	_, exists := seen.Load(id)
	return exists
}

// fileSize returns the bytes a file contributes to its parent's aggregate.
// Hard links are counted once per walk; sparse files contribute their
// allocated blocks rather than their logical length.
func fileSize(info os.FileInfo, seen *sync.Map) (int64, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.Size(), true
	}

	if stat.Nlink > 1 {
		id := identity{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}
		if _, exists := seen.LoadOrStore(id, true); exists {
			return 0, false
		}
	}

	allocated := stat.Blocks * 512
	if allocated < info.Size() {
		return allocated, true
	}
	return info.Size(), true
}
