// Package scanner measures directory sizes without crossing mount boundaries
// or following symlink cycles.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/lumipallolabs/burrow/internal/logging"
	"github.com/lumipallolabs/burrow/internal/model"
)

// Config bounds the scanner's resource usage
type Config struct {
	LargeFileThreshold int64 // regular files at or above this size are recorded
	LargeFileLimit     int   // capacity of the largest-files collection
	ChildWorkers       int   // concurrent immediate children of the scanned directory
	WalkWorkers        int   // fastwalk parallelism within a single subtree
}

// DefaultLargeFileThreshold is 100 MiB
const DefaultLargeFileThreshold = 100 << 20

// DefaultLargeFileLimit bounds the largest-files collection
const DefaultLargeFileLimit = 30

func (c Config) withDefaults() Config {
	if c.LargeFileThreshold <= 0 {
		c.LargeFileThreshold = DefaultLargeFileThreshold
	}
	if c.LargeFileLimit <= 0 {
		c.LargeFileLimit = DefaultLargeFileLimit
	}
	if c.ChildWorkers <= 0 {
		c.ChildWorkers = runtime.NumCPU()
	}
	if c.WalkWorkers <= 0 {
		c.WalkWorkers = 4 * runtime.NumCPU()
		if c.WalkWorkers > 128 {
			c.WalkWorkers = 128
		}
	}
	return c
}

// SizeCache memoizes directory aggregates between scans
type SizeCache interface {
	Get(path string) (int64, bool)
	Put(path string, size int64)
}

// Scanner sizes the immediate children of one directory per Scan call.
// Directory children are walked in full (reusing cached aggregates), file
// children are statted directly.
type Scanner struct {
	cfg   Config
	cache SizeCache
}

// New creates a scanner backed by the given size cache
func New(cfg Config, cache SizeCache) *Scanner {
	return &Scanner{cfg: cfg.withDefaults(), cache: cache}
}

// Scan enumerates dir's immediate children and computes each one's aggregate
// size concurrently. Per-child I/O errors are counted, never fatal; the only
// fatal errors are an unreadable dir itself and context cancellation.
func (s *Scanner) Scan(ctx context.Context, dir string) (*model.ScanResult, error) {
	start := time.Now()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	rootDev, _ := deviceOf(absDir)
	largest := newLargestSet(s.cfg.LargeFileThreshold, s.cfg.LargeFileLimit)

	// Identity of the scanned directory seeds loop detection so a symlink
	// child pointing back at it is caught.
	var topSeen sync.Map
	if id, isDir, ok := resolveIdentity(absDir); ok && isDir {
		topSeen.Store(id, true)
	}

	var (
		mu       sync.Mutex
		entries  = make([]model.Entry, 0, len(children))
		errCount int64
	)

	sem := make(chan struct{}, s.cfg.ChildWorkers)
	var wg sync.WaitGroup

	for _, child := range children {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(child os.DirEntry) {
			defer wg.Done()
			defer func() { <-sem }()

			entry, errs := s.sizeChild(ctx, absDir, child, rootDev, largest, &topSeen)
			atomic.AddInt64(&errCount, errs)
			if entry == nil {
				return
			}
			mu.Lock()
			entries = append(entries, *entry)
			mu.Unlock()
		}(child)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge deterministically regardless of worker completion order
	model.SortEntries(entries)

	var total int64
	for i := range entries {
		total += entries[i].Size
	}

	result := &model.ScanResult{
		Path:       absDir,
		Entries:    entries,
		LargeFiles: largest.Records(),
		TotalBytes: total,
		ErrorCount: int(atomic.LoadInt64(&errCount)),
		Elapsed:    time.Since(start),
	}

	logging.Scanner.Printf("scanned %s: %d entries, %d bytes, %d errors in %v",
		absDir, len(result.Entries), result.TotalBytes, result.ErrorCount, result.Elapsed)

	return result, nil
}

// sizeChild produces the entry for one immediate child and the number of
// errors encountered while sizing it
func (s *Scanner) sizeChild(ctx context.Context, parent string, child os.DirEntry, rootDev uint64, largest *largestSet, topSeen *sync.Map) (*model.Entry, int64) {
	name := child.Name()
	path := filepath.Join(parent, name)

	if child.IsDir() {
		if size, ok := s.cache.Get(path); ok {
			return &model.Entry{Name: name, Path: path, IsDir: true, Size: size, SizeKnown: true}, 0
		}
		size, errs := s.walkDir(ctx, path, rootDev, largest, topSeen)
		if ctx.Err() == nil {
			s.cache.Put(path, size)
		}
		return &model.Entry{Name: name, Path: path, IsDir: true, Size: size, SizeKnown: true}, errs
	}

	info, err := child.Info()
	if err != nil {
		if os.IsNotExist(err) {
			// Vanished between listing and stat; expected under
			// concurrent external mutation, not an error.
			return &model.Entry{Name: name, Path: path, SizeKnown: true}, 0
		}
		return &model.Entry{Name: name, Path: path}, 1
	}

	var errs int64
	if info.Mode()&os.ModeSymlink != 0 {
		// A symlink counts as its own lstat size, never as its target.
		// One pointing back at the scanned directory is a loop.
		if loopsInto(path, topSeen) {
			errs++
		}
		return &model.Entry{Name: name, Path: path, Size: info.Size(), SizeKnown: true}, errs
	}

	size, counted := fileSize(info, topSeen)
	if !counted {
		return nil, 0
	}
	if info.Mode().IsRegular() {
		largest.Offer(path, size)
	}
	return &model.Entry{Name: name, Path: path, Size: size, SizeKnown: true}, 0
}

// walkDir computes the aggregate size of one subtree. The walk stays on the
// filesystem identified by rootDev and never revisits a (device, inode)
// identity, so firmlinks, bind mounts and hardlinked directories cannot
// inflate the total or loop the walk. The ancestors set carries identities
// above this subtree so links pointing back out of it still register as
// loops.
func (s *Scanner) walkDir(ctx context.Context, root string, rootDev uint64, largest *largestSet, ancestors *sync.Map) (int64, int64) {
	id, isDir, ok := resolveIdentity(root)
	if ok && rootDev != 0 && id.dev != rootDev {
		// The child is itself a mount point; its contents are excluded
		// from the parent's aggregate.
		return 0, 0
	}

	var size, errs int64

	var seen sync.Map
	if ancestors != nil {
		ancestors.Range(func(k, v any) bool {
			seen.Store(k, v)
			return true
		})
	}
	if ok && isDir {
		seen.Store(id, true)
	}

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: s.cfg.WalkWorkers,
	}

	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		// Cancellation is observed between entries at every level
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			atomic.AddInt64(&errs, 1)
			return nil
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(d, rootDev, &seen) {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if !os.IsNotExist(err) {
				atomic.AddInt64(&errs, 1)
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			atomic.AddInt64(&size, info.Size())
			if loopsInto(path, &seen) {
				atomic.AddInt64(&errs, 1)
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		sz, counted := fileSize(info, &seen)
		if !counted {
			return nil
		}
		atomic.AddInt64(&size, sz)
		largest.Offer(path, sz)
		return nil
	})

	if walkErr != nil && walkErr != ctx.Err() {
		atomic.AddInt64(&errs, 1)
	}

	return atomic.LoadInt64(&size), atomic.LoadInt64(&errs)
}
