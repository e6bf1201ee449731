package core

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/lumipallolabs/burrow/internal/model"
)

// visit remembers the cursor position for a directory on the history stack
// so going back up restores the view
type visit struct {
	path   string
	cursor int
}

// stashedScan holds a scan that completed while the deletion prompt or a
// deletion was in progress; it is folded in when browsing resumes
type stashedScan struct {
	gen    int
	path   string
	result *model.ScanResult
	err    error
}

// Navigator is the state machine driving the explorer. It owns the current
// directory, the ranked entry list, the cursor, and the multi-selection; it
// consumes key-driven transitions and scan/delete completions and never
// touches the filesystem itself.
type Navigator struct {
	state   State
	history []visit
	scanGen int // generation of the scan whose result we are waiting for
	stash   *stashedScan
}

// NewNavigator starts at root in the loading phase
func NewNavigator(root string) *Navigator {
	return &Navigator{
		state: State{
			Phase:       PhaseLoading,
			CurrentPath: root,
			Selected:    make(map[string]struct{}),
			Scanning:    true,
		},
	}
}

// State returns a snapshot safe to hand to a renderer
func (n *Navigator) State() State {
	s := n.state
	s.Selected = make(map[string]struct{}, len(n.state.Selected))
	for p := range n.state.Selected {
		s.Selected[p] = struct{}{}
	}
	return s
}

// ExpectScan records the generation of the scan just requested for the
// current directory. Results for any other generation are stale.
func (n *Navigator) ExpectScan(gen int) {
	n.scanGen = gen
	n.state.Scanning = true
	n.stash = nil
}

// MoveUp moves the cursor up one entry
func (n *Navigator) MoveUp() {
	if n.state.Cursor > 0 {
		n.state.Cursor--
	}
}

// MoveDown moves the cursor down one entry
func (n *Navigator) MoveDown() {
	if n.state.Cursor < len(n.state.Entries)-1 {
		n.state.Cursor++
	}
}

// PageUp moves the cursor up by page entries
func (n *Navigator) PageUp(page int) {
	if page < 1 {
		page = 1
	}
	n.state.Cursor -= page
	if n.state.Cursor < 0 {
		n.state.Cursor = 0
	}
}

// PageDown moves the cursor down by page entries
func (n *Navigator) PageDown(page int) {
	if page < 1 {
		page = 1
	}
	n.state.Cursor += page
	n.clampCursor()
}

// Top moves the cursor to the first entry
func (n *Navigator) Top() {
	n.state.Cursor = 0
}

// Bottom moves the cursor to the last entry
func (n *Navigator) Bottom() {
	n.state.Cursor = len(n.state.Entries) - 1
	if n.state.Cursor < 0 {
		n.state.Cursor = 0
	}
}

// ToggleSelect toggles the multi-selection mark on the cursor entry
func (n *Navigator) ToggleSelect() {
	entry, ok := n.state.Current()
	if !ok || n.state.Phase != PhaseBrowsing {
		return
	}
	if _, marked := n.state.Selected[entry.Path]; marked {
		delete(n.state.Selected, entry.Path)
	} else {
		n.state.Selected[entry.Path] = struct{}{}
	}
}

// SelectAll marks every entry in the current directory
func (n *Navigator) SelectAll() {
	if n.state.Phase != PhaseBrowsing {
		return
	}
	for _, e := range n.state.Entries {
		n.state.Selected[e.Path] = struct{}{}
	}
}

// ClearSelection unmarks everything
func (n *Navigator) ClearSelection() {
	n.state.Selected = make(map[string]struct{})
}

// Descend enters the directory under the cursor. When its aggregate size is
// already cached the view stays in the browsing phase while the child's own
// children are scanned; otherwise it goes through loading.
func (n *Navigator) Descend(sizeCached bool) (string, bool) {
	entry, ok := n.state.Current()
	if !ok || !entry.IsDir {
		return "", false
	}
	if n.state.Phase != PhaseBrowsing && n.state.Phase != PhaseError {
		return "", false
	}

	n.history = append(n.history, visit{path: n.state.CurrentPath, cursor: n.state.Cursor})

	n.state.CurrentPath = entry.Path
	n.state.Entries = nil
	n.state.Cursor = 0
	n.state.TotalBytes = 0
	n.state.ErrorCount = 0
	n.state.LargeFiles = nil
	n.state.LastError = nil
	n.state.Scanning = true
	if sizeCached {
		n.state.Phase = PhaseBrowsing
	} else {
		n.state.Phase = PhaseLoading
	}

	return entry.Path, true
}

// Ascend moves to the parent directory, restoring the previous cursor when
// the parent came off the history stack. Leaving a node always succeeds,
// including out of the error phase.
func (n *Navigator) Ascend() (string, bool) {
	parent := filepath.Dir(n.state.CurrentPath)
	if parent == n.state.CurrentPath {
		return "", false
	}
	if n.state.Phase == PhaseConfirming || n.state.Phase == PhaseDeleting {
		return "", false
	}

	cursor := 0
	if len(n.history) > 0 {
		last := n.history[len(n.history)-1]
		if last.path == parent {
			cursor = last.cursor
			n.history = n.history[:len(n.history)-1]
		}
	}

	n.state.CurrentPath = parent
	n.state.Entries = nil
	n.state.Cursor = cursor
	n.state.TotalBytes = 0
	n.state.ErrorCount = 0
	n.state.LargeFiles = nil
	n.state.LastError = nil
	n.state.Scanning = true
	n.state.Phase = PhaseLoading

	return parent, true
}

// Refresh keeps the current entries visible while a rescan runs
func (n *Navigator) Refresh() (string, bool) {
	if n.state.Phase != PhaseBrowsing && n.state.Phase != PhaseError {
		return "", false
	}
	n.state.Scanning = true
	if n.state.Phase == PhaseError {
		n.state.Phase = PhaseLoading
		n.state.LastError = nil
	}
	return n.state.CurrentPath, true
}

// RequestDeletion moves to the confirming phase for the multi-selection, or
// the cursor entry when nothing is marked
func (n *Navigator) RequestDeletion() bool {
	if n.state.Phase != PhaseBrowsing {
		return false
	}
	pending := n.state.SelectionOrCursor()
	if len(pending) == 0 {
		return false
	}
	sort.Strings(pending)
	n.state.Pending = pending
	n.state.Phase = PhaseConfirming
	return true
}

// CancelDeletion abandons the pending set
func (n *Navigator) CancelDeletion() {
	if n.state.Phase != PhaseConfirming {
		return
	}
	n.state.Pending = nil
	n.state.Phase = PhaseBrowsing
	n.unstash()
}

// BeginDeletion commits the pending set and returns it
func (n *Navigator) BeginDeletion() []string {
	if n.state.Phase != PhaseConfirming {
		return nil
	}
	n.state.Phase = PhaseDeleting
	return n.state.Pending
}

// ApplyScan folds a completed scan into the state. It returns false when the
// result is stale: a generation we no longer wait for, or a directory the
// user has since left.
func (n *Navigator) ApplyScan(gen int, path string, result *model.ScanResult, err error) bool {
	if gen != n.scanGen || path != n.state.CurrentPath {
		return false
	}
	if n.state.Phase == PhaseConfirming || n.state.Phase == PhaseDeleting {
		// Not lost: folded in when the deletion flow resolves
		n.stash = &stashedScan{gen: gen, path: path, result: result, err: err}
		return false
	}

	n.applyScanResult(result, err)
	return true
}

func (n *Navigator) applyScanResult(result *model.ScanResult, err error) {
	n.state.Scanning = false

	if err != nil {
		n.state.Phase = PhaseError
		n.state.LastError = err
		return
	}

	n.state.Entries = result.Entries
	n.state.TotalBytes = result.TotalBytes
	n.state.ErrorCount = result.ErrorCount
	n.state.LargeFiles = result.LargeFiles
	n.state.LastError = nil
	n.state.Phase = PhaseBrowsing
	n.clampCursor()
}

// unstash folds in a scan that completed during the deletion flow,
// provided it is still current
func (n *Navigator) unstash() {
	if n.stash == nil {
		return
	}
	s := n.stash
	n.stash = nil
	if s.gen != n.scanGen || s.path != n.state.CurrentPath {
		return
	}
	n.applyScanResult(s.result, s.err)
}

// ApplyDeleteOutcome drops removed entries, prunes the selection of anything
// that no longer exists, and returns to browsing. The cursor is clamped, not
// reset, so the view stays stable.
func (n *Navigator) ApplyDeleteOutcome(removed []string) {
	if n.state.Phase != PhaseDeleting {
		return
	}

	gone := make(map[string]struct{}, len(removed))
	for _, p := range removed {
		gone[p] = struct{}{}
	}

	// A scan that finished during the deletion is the freshest view; fold
	// it in first, then drop what the deletion removed.
	n.state.Phase = PhaseBrowsing
	n.unstash()

	kept := n.state.Entries[:0]
	for _, e := range n.state.Entries {
		if _, dropped := gone[e.Path]; !dropped {
			kept = append(kept, e)
		}
	}
	n.state.Entries = kept

	for p := range n.state.Selected {
		if underAny(p, gone) {
			delete(n.state.Selected, p)
		}
	}

	var total int64
	for _, e := range n.state.Entries {
		total += e.Size
	}
	n.state.TotalBytes = total

	n.state.Pending = nil
	if n.state.Phase != PhaseError {
		n.state.Phase = PhaseBrowsing
	}
	n.clampCursor()
}

// SetError forces the error phase for the current directory
func (n *Navigator) SetError(err error) {
	n.state.Phase = PhaseError
	n.state.LastError = err
	n.state.Scanning = false
}

func (n *Navigator) clampCursor() {
	if n.state.Cursor >= len(n.state.Entries) {
		n.state.Cursor = len(n.state.Entries) - 1
	}
	if n.state.Cursor < 0 {
		n.state.Cursor = 0
	}
}

// underAny reports whether path equals or sits beneath any of the roots
func underAny(path string, roots map[string]struct{}) bool {
	if _, ok := roots[path]; ok {
		return true
	}
	for r := range roots {
		if strings.HasPrefix(path, r+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
