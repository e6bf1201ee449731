//go:build windows

package scanner

import (
	"io/fs"
	"os"
	"sync"
)

type identity struct {
	dev, ino uint64
}

func deviceOf(path string) (uint64, bool) {
	return 0, false
}

func resolveIdentity(path string) (identity, bool, bool) {
	return identity{}, false, false
}

// Mount and hardlink detection need volume/file-index queries on Windows;
// without them the walk descends everywhere on the same tree.
func shouldSkipDir(d fs.DirEntry, rootDev uint64, seen *sync.Map) bool {
	return false
}

func loopsInto(path string, seen *sync.Map) bool {
	return false
}

func fileSize(info os.FileInfo, seen *sync.Map) (int64, bool) {
	return info.Size(), true
}
