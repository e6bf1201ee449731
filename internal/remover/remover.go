// Package remover deletes confirmed paths one at a time through the safety
// policy, reporting a per-path outcome and the bytes freed.
package remover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lumipallolabs/burrow/internal/logging"
)

// ErrMountBoundary aborts a recursive removal that would cross filesystems
var ErrMountBoundary = errors.New("mount boundary")

// Status classifies the outcome of one removal attempt
type Status int

const (
	StatusRemoved Status = iota
	StatusSkippedProtected
	StatusSkipped // cancelled before this path was attempted
	StatusFailed
	StatusPartial // some descendants were removed before the failure
)

func (s Status) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusSkippedProtected:
		return "skipped-protected"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusPartial:
		return "partial"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome reports the result for one top-level selected path
type Outcome struct {
	Path   string
	Status Status
	Freed  int64
	Err    error
}

// Safety is the gate every path passes immediately before removal
type Safety interface {
	IsProtected(path string) bool
}

// Progress is called after each top-level path is attempted
type Progress func(done, total int, path string)

// Executor removes paths recursively. Removal of one selected subtree is not
// transactional: descendants deleted before a mid-subtree failure stay
// deleted, and the outcome is reported as partial.
type Executor struct {
	safety Safety
}

// New creates an executor gated by the given safety policy
func New(safety Safety) *Executor {
	return &Executor{safety: safety}
}

// Delete removes each path in turn. The context is honored between top-level
// paths: once cancelled, remaining paths report StatusSkipped. Each path is
// rechecked against the safety policy at removal time, not selection time.
func (e *Executor) Delete(ctx context.Context, paths []string, progress Progress) ([]Outcome, int64) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	outcomes := make([]Outcome, 0, len(sorted))
	var totalFreed int64

	for i, path := range sorted {
		outcome := e.deleteOne(ctx, path)
		totalFreed += outcome.Freed
		outcomes = append(outcomes, outcome)
		logging.Debug.Printf("delete %s: %s (%d bytes)", path, outcome.Status, outcome.Freed)
		if progress != nil {
			progress(i+1, len(sorted), path)
		}
	}

	return outcomes, totalFreed
}

func (e *Executor) deleteOne(ctx context.Context, path string) Outcome {
	if ctx.Err() != nil {
		return Outcome{Path: path, Status: StatusSkipped}
	}
	if e.safety.IsProtected(path) {
		return Outcome{Path: path, Status: StatusSkippedProtected}
	}

	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Already gone; the goal state holds
			return Outcome{Path: path, Status: StatusRemoved}
		}
		return Outcome{Path: path, Status: StatusFailed, Err: err}
	}

	if !info.IsDir() {
		size := info.Size()
		if err := os.Remove(path); err != nil {
			return Outcome{Path: path, Status: StatusFailed, Err: err}
		}
		return Outcome{Path: path, Status: StatusRemoved, Freed: size}
	}

	dev, _ := deviceOf(path)
	freed, err := removeTree(path, dev)
	if err != nil {
		status := StatusFailed
		if freed > 0 {
			status = StatusPartial
		}
		return Outcome{Path: path, Status: status, Freed: freed, Err: err}
	}
	return Outcome{Path: path, Status: StatusRemoved, Freed: freed}
}

// removeTree removes a directory depth-first, counting bytes as files go.
// It refuses to descend across a mount boundary; hitting one aborts this
// path's removal with whatever was already freed.
func removeTree(dir string, dev uint64) (int64, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	var freed int64
	for _, child := range children {
		path := filepath.Join(dir, child.Name())

		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return freed, err
		}

		if info.IsDir() {
			childDev, ok := deviceOf(path)
			if ok && dev != 0 && childDev != dev {
				return freed, fmt.Errorf("%s: %w", path, ErrMountBoundary)
			}
			n, err := removeTree(path, dev)
			freed += n
			if err != nil {
				return freed, err
			}
			continue
		}

		size := info.Size()
		if err := os.Remove(path); err != nil {
			return freed, err
		}
		freed += size
	}

	if err := os.Remove(dir); err != nil {
		return freed, err
	}
	return freed, nil
}
