//go:build !windows && !darwin

package ui

import "os/exec"

// openInFileManager opens the path with the desktop's default handler
func openInFileManager(path string) error {
	return exec.Command("xdg-open", path).Start()
}
