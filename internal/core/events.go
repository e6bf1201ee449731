package core

import (
	"github.com/lumipallolabs/burrow/internal/model"
	"github.com/lumipallolabs/burrow/internal/remover"
)

// Event is a completion or progress notification from the controller's
// background work. Exactly one terminal event is emitted per request.
type Event interface {
	isEvent()
}

// ScanStartedEvent is emitted when a scan begins
type ScanStartedEvent struct {
	Gen  int
	Path string
}

func (ScanStartedEvent) isEvent() {}

// ScanCompletedEvent carries the result (or failure) of one scan request.
// Gen identifies the request; stale generations must be discarded.
type ScanCompletedEvent struct {
	Gen    int
	Path   string
	Result *model.ScanResult
	Err    error
}

func (ScanCompletedEvent) isEvent() {}

// DeleteProgressEvent is emitted after each top-level path is attempted
type DeleteProgressEvent struct {
	Done  int
	Total int
	Path  string
}

func (DeleteProgressEvent) isEvent() {}

// DeleteCompletedEvent carries the per-path outcomes of one deletion batch
type DeleteCompletedEvent struct {
	Outcomes []remover.Outcome
	Freed    int64
}

func (DeleteCompletedEvent) isEvent() {}

// PathInvalidatedEvent is emitted when the watcher observes an external
// change and the cached sizes along the path became stale
type PathInvalidatedEvent struct {
	Path string
}

func (PathInvalidatedEvent) isEvent() {}
