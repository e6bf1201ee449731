package model

import (
	"sort"
	"time"
)

// Entry represents one direct child of the directory being displayed
type Entry struct {
	Name      string // base name, display label
	Path      string // absolute path, unique key
	IsDir     bool
	Size      int64 // aggregate bytes for dirs, file size for files
	SizeKnown bool  // false while the size is a placeholder awaiting a scan
}

// LargeFileRecord records a single file above the large-file threshold
type LargeFileRecord struct {
	Path string
	Size int64
}

// ScanResult is the outcome of scanning one directory's immediate children
type ScanResult struct {
	Path       string
	Entries    []Entry
	LargeFiles []LargeFileRecord // sorted by size descending
	TotalBytes int64
	ErrorCount int
	Elapsed    time.Duration
}

// SortEntries orders entries by size descending, ties broken by name ascending.
// Call after any entry's size changes so the displayed ranking stays correct.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Name < entries[j].Name
	})
}

// SortLargeFiles orders large-file records by size descending, name ascending on ties
func SortLargeFiles(records []LargeFileRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Size != records[j].Size {
			return records[i].Size > records[j].Size
		}
		return records[i].Path < records[j].Path
	})
}

// IndexOf returns the position of the entry with the given path, or -1
func IndexOf(entries []Entry, path string) int {
	for i := range entries {
		if entries[i].Path == path {
			return i
		}
	}
	return -1
}
