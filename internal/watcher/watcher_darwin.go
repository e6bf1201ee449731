//go:build darwin

package watcher

import (
	"sync"
	"time"

	"github.com/fsnotify/fsevents"
)

// Change reports that something under the watched root was created, modified
// or removed. Cached sizes along its ancestor chain are stale once it arrives.
type Change struct {
	Path string
}

// Watcher observes external filesystem mutations using macOS FSEvents
type Watcher struct {
	stream  *fsevents.EventStream
	changes chan Change
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func New() (*Watcher, error) {
	return &Watcher{
		changes: make(chan Change, 100),
		done:    make(chan struct{}),
	}, nil
}

func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

func (w *Watcher) Watch(root string) error {
	dev, err := fsevents.DeviceForPath(root)
	if err != nil {
		return err
	}

	w.stream = &fsevents.EventStream{
		Paths:   []string{root},
		Latency: 500 * time.Millisecond,
		Device:  dev,
		Flags:   fsevents.FileEvents | fsevents.WatchRoot,
	}
	return nil
}

func (w *Watcher) Start() {
	if w.stream == nil {
		return
	}
	w.stream.Start()
	w.wg.Add(1)
	go w.run()
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case events, ok := <-w.stream.Events:
			if !ok {
				return
			}
			for _, event := range events {
				w.handleEvent(event)
			}
		}
	}
}

const mutationFlags = fsevents.ItemCreated | fsevents.ItemRemoved |
	fsevents.ItemRenamed | fsevents.ItemModified

func (w *Watcher) handleEvent(event fsevents.Event) {
	if event.Flags&mutationFlags == 0 {
		return
	}

	path := event.Path
	if len(path) > 0 && path[0] != '/' {
		path = "/" + path
	}

	// Drop rather than block when the consumer lags; a lost change only
	// means a size stays cached a little longer.
	select {
	case w.changes <- Change{Path: path}:
	default:
	}
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	if w.stream != nil {
		w.stream.Stop()
	}
	w.wg.Wait()
	close(w.changes)
	return nil
}
