//go:build !darwin && !windows

package watcher

// Change reports that something under the watched root was created, modified
// or removed
type Change struct {
	Path string
}

// Watcher is a stub on platforms without a native change API.
// TODO: inotify backend for Linux.
type Watcher struct {
	changes chan Change
}

func New() (*Watcher, error) {
	return &Watcher{
		changes: make(chan Change, 100),
	}, nil
}

func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

func (w *Watcher) Watch(root string) error {
	return nil
}

func (w *Watcher) Start() {
}

func (w *Watcher) Stop() error {
	close(w.changes)
	return nil
}
