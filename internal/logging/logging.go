// Package logging provides the debug loggers, enabled by BURROW_DEBUG.
// With the variable unset every logger discards its output, so call sites
// never need to guard their log statements.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	Debug   *log.Logger
	Scanner *log.Logger
	Enabled bool
)

func init() {
	if os.Getenv("BURROW_DEBUG") == "" {
		Debug = log.New(io.Discard, "", 0)
		Scanner = log.New(io.Discard, "", 0)
		return
	}

	Enabled = true

	// One shared log file under ~/.burrow; the TUI owns the terminal
	path := "burrow-debug.log"
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".burrow")
		if err := os.MkdirAll(dir, 0755); err == nil {
			path = filepath.Join(dir, "debug.log")
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		Debug = log.New(os.Stderr, "[debug] ", log.Lmicroseconds)
		Scanner = log.New(os.Stderr, "[scan] ", log.Lmicroseconds)
		return
	}

	Debug = log.New(f, "[debug] ", log.Lmicroseconds)
	Scanner = log.New(f, "[scan] ", log.Lmicroseconds)
}
