package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lumipallolabs/burrow/internal/cache"
	"github.com/lumipallolabs/burrow/internal/config"
	"github.com/lumipallolabs/burrow/internal/logging"
	"github.com/lumipallolabs/burrow/internal/model"
	"github.com/lumipallolabs/burrow/internal/remover"
	"github.com/lumipallolabs/burrow/internal/safety"
	"github.com/lumipallolabs/burrow/internal/scanner"
	"github.com/lumipallolabs/burrow/internal/stats"
	"github.com/lumipallolabs/burrow/internal/watcher"
)

// Controller owns the background work (scans, deletions, watching) and the
// shared services behind the navigator. It reports back to the UI loop only
// through the event channel: one terminal event per request, tagged with a
// generation so stale completions can be discarded.
type Controller struct {
	mu sync.Mutex

	cfg    config.Config
	root   string
	sizes  *cache.SizeCache
	store  *cache.Store
	scan   *scanner.Scanner
	policy *safety.Policy
	exec   *remover.Executor
	stats  *stats.Manager
	watch  *watcher.Watcher

	// concurrent requests for the same path share one walk
	group singleflight.Group

	events       chan Event
	scanGen      int
	scanPath     string
	scanCtx      context.Context
	scanCancel   context.CancelFunc
	deleteCancel context.CancelFunc
}

// NewController validates the root and wires the services. The only fatal
// startup error is a root that does not exist or is not a directory.
func NewController(cfg config.Config) (*Controller, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("root %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", cfg.Root)
	}

	policy, err := safety.NewPolicy(cfg.Root, cfg.Protected)
	if err != nil {
		return nil, fmt.Errorf("safety policy: %w", err)
	}

	statsMgr := stats.NewManager()
	if err := statsMgr.Load(); err != nil {
		logging.Debug.Printf("load stats: %v", err)
	}
	statsMgr.SetDefaultRoot(policy.Root())

	sizes := cache.NewSizeCache()

	c := &Controller{
		cfg:    cfg,
		root:   policy.Root(),
		sizes:  sizes,
		policy: policy,
		exec:   remover.New(policy),
		stats:  statsMgr,
		events: make(chan Event, 100),
	}

	c.scan = scanner.New(scanner.Config{
		LargeFileThreshold: cfg.LargeFileThreshold,
		LargeFileLimit:     cfg.LargeFileLimit,
		ChildWorkers:       cfg.ChildWorkers,
		WalkWorkers:        cfg.WalkWorkers,
	}, sizes)

	if !cfg.NoCache {
		dir := cfg.CacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		c.store = cache.NewStore(dir)
		ttl := time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
		if entries, err := c.store.Load(c.root, ttl); err == nil {
			sizes.Seed(entries)
			logging.Debug.Printf("seeded %d cached sizes for %s", len(entries), c.root)
		}
	}

	if !cfg.NoWatch {
		c.startWatcher()
	}

	return c, nil
}

// Events returns the channel the UI loop selects on
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Root returns the canonical explorer root
func (c *Controller) Root() string {
	return c.root
}

// FreedLifetime returns the persisted all-time freed bytes
func (c *Controller) FreedLifetime() int64 {
	return c.stats.FreedLifetime()
}

// CachedSize consults the size cache without triggering a scan
func (c *Controller) CachedSize(path string) (int64, bool) {
	return c.sizes.Get(path)
}

// InvalidateSubtree drops cached sizes for path and everything beneath it,
// plus the now-stale ancestor aggregates. Used before an explicit refresh.
func (c *Controller) InvalidateSubtree(path string) {
	c.sizes.InvalidateSubtree(path)
	c.sizes.Invalidate(path)
}

// StartScan requests a scan of path, cancelling any scan still in flight,
// and returns the request's generation. The caller matches it against the
// eventual ScanCompletedEvent.
func (c *Controller) StartScan(path string) int {
	c.mu.Lock()
	c.scanGen++
	gen := c.scanGen
	// A repeat request for the same path joins the in-flight walk through
	// the singleflight group; only a different path cancels it. The
	// cancelled key is forgotten so a later request for it starts a fresh
	// walk instead of joining the dying one.
	if c.scanCancel != nil && c.scanPath != path {
		c.scanCancel()
		c.scanCancel = nil
		c.group.Forget(c.scanPath)
	}
	if c.scanCancel == nil {
		c.scanCtx, c.scanCancel = context.WithCancel(context.Background())
	}
	ctx := c.scanCtx
	c.scanPath = path
	c.mu.Unlock()

	c.events <- ScanStartedEvent{Gen: gen, Path: path}

	go func() {
		v, err, shared := c.group.Do(path, func() (interface{}, error) {
			return c.scan.Scan(ctx, path)
		})
		if shared {
			logging.Debug.Printf("scan of %s shared with concurrent request", path)
		}
		var result *model.ScanResult
		if r, ok := v.(*model.ScanResult); ok {
			result = r
		}
		c.events <- ScanCompletedEvent{Gen: gen, Path: path, Result: result, Err: err}
	}()

	return gen
}

// CancelScan cancels the in-flight scan, if any. Its eventual completion
// event carries the cancellation error and a stale generation.
func (c *Controller) CancelScan() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scanCancel != nil {
		c.scanCancel()
		c.scanCancel = nil
		c.group.Forget(c.scanPath)
	}
}

// StartDelete removes the confirmed paths in the background. Deletion of one
// path is not cancellable midway; CancelDelete takes effect between paths.
func (c *Controller) StartDelete(paths []string) {
	c.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	c.deleteCancel = cancel
	c.mu.Unlock()

	go func() {
		outcomes, freed := c.exec.Delete(ctx, paths, func(done, total int, path string) {
			c.events <- DeleteProgressEvent{Done: done, Total: total, Path: path}
		})

		for _, o := range outcomes {
			switch o.Status {
			case remover.StatusRemoved, remover.StatusPartial:
				c.sizes.InvalidateSubtree(o.Path)
				c.sizes.Invalidate(o.Path)
			}
		}

		if freed > 0 {
			c.stats.AddFreed(freed)
		}

		c.events <- DeleteCompletedEvent{Outcomes: outcomes, Freed: freed}
	}()
}

// CancelDelete stops the current batch between top-level paths
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteCancel != nil {
		c.deleteCancel()
		c.deleteCancel = nil
	}
}

// startWatcher invalidates cached sizes when something outside the explorer
// mutates the tree. It never triggers a rescan on its own.
func (c *Controller) startWatcher() {
	w, err := watcher.New()
	if err != nil {
		logging.Debug.Printf("watcher: %v", err)
		return
	}
	if err := w.Watch(c.root); err != nil {
		logging.Debug.Printf("watch %s: %v", c.root, err)
		return
	}
	c.watch = w
	w.Start()

	go func() {
		for change := range w.Changes() {
			c.sizes.Invalidate(change.Path)
			select {
			case c.events <- PathInvalidatedEvent{Path: change.Path}:
			default:
			}
		}
	}()
}

// Close cancels outstanding work and flushes the persistent state
func (c *Controller) Close() error {
	c.CancelScan()
	c.CancelDelete()

	if c.watch != nil {
		_ = c.watch.Stop()
	}

	if c.store != nil {
		if err := c.store.Save(c.root, c.sizes); err != nil {
			logging.Debug.Printf("save cache snapshot: %v", err)
		}
	}

	return c.stats.Close()
}
