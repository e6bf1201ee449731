package cache

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store persists SizeCache snapshots to disk, one file per explorer root,
// so a restart does not rescan everything from cold.
type Store struct {
	dir string
}

// NewStore creates a snapshot store in the given directory
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultDir returns the default snapshot directory
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".burrow"
	}
	return filepath.Join(home, ".burrow", "cache")
}

// fileFor maps a root path to its snapshot file. Hashing keeps filenames
// short and filesystem safe regardless of the root's characters.
func (s *Store) fileFor(root string) string {
	sum := xxhash.Sum64String(root)
	return filepath.Join(s.dir, fmt.Sprintf("%016x.gob.gz", sum))
}

// Save writes the cache contents for the given root
func (s *Store) Save(root string, c *SizeCache) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	path := s.fileFor(root)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	gzWriter := gzip.NewWriter(file)
	encoder := gob.NewEncoder(gzWriter)
	if err := encoder.Encode(c.Snapshot()); err != nil {
		gzWriter.Close()
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("gzip close: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close: %w", err)
	}

	return os.Rename(tmp, path)
}

// Load reads the snapshot for root and returns the entries still worth
// trusting. An entry is dropped when its directory no longer exists, was
// modified after the size was computed, or is older than maxAge.
func (s *Store) Load(root string, maxAge time.Duration) ([]Entry, error) {
	file, err := os.Open(s.fileFor(root))
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gzReader.Close()

	var entries []Entry
	decoder := gob.NewDecoder(gzReader)
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	now := time.Now()
	valid := entries[:0]
	for _, e := range entries {
		if maxAge > 0 && now.Sub(e.ComputedAt) > maxAge {
			continue
		}
		info, err := os.Stat(e.Path)
		if err != nil || !info.IsDir() {
			continue
		}
		if info.ModTime().After(e.ComputedAt) {
			continue
		}
		valid = append(valid, e)
	}

	return valid, nil
}
