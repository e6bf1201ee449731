//go:build !windows

package remover

import "syscall"

func deviceOf(path string) (uint64, bool) {
	var stat syscall.Stat_t
	if err := syscall.Lstat(path, &stat); err != nil {
		return 0, false
	}
	return uint64(stat.Dev), true
}
