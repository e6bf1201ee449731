package core

import "github.com/lumipallolabs/burrow/internal/model"

// Phase is the navigator's state-machine phase
type Phase int

const (
	PhaseLoading Phase = iota // scan in flight for the current directory
	PhaseBrowsing
	PhaseConfirming // deletion prompt shown for a non-empty pending set
	PhaseDeleting
	PhaseError // last scan or deletion failed for the current directory
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseBrowsing:
		return "browsing"
	case PhaseConfirming:
		return "confirming"
	case PhaseDeleting:
		return "deleting"
	case PhaseError:
		return "error"
	default:
		return ""
	}
}

// State is a snapshot of everything the renderer needs. Selection is keyed
// by absolute path so it survives navigation; PendingDeletion is non-empty
// only in the confirming and deleting phases.
type State struct {
	Phase       Phase
	CurrentPath string
	Entries     []model.Entry
	Cursor      int
	Selected    map[string]struct{}
	Scanning    bool
	Pending     []string // paths queued for deletion, sorted

	// Results of the last completed scan of CurrentPath
	TotalBytes int64
	ErrorCount int
	LargeFiles []model.LargeFileRecord

	LastError error
}

// Current returns the entry under the cursor
func (s State) Current() (model.Entry, bool) {
	if s.Cursor >= 0 && s.Cursor < len(s.Entries) {
		return s.Entries[s.Cursor], true
	}
	return model.Entry{}, false
}

// SelectionOrCursor returns the multi-selected paths, falling back to the
// cursor entry when nothing is marked
func (s State) SelectionOrCursor() []string {
	if len(s.Selected) > 0 {
		out := make([]string, 0, len(s.Selected))
		for p := range s.Selected {
			out = append(out, p)
		}
		return out
	}
	if entry, ok := s.Current(); ok {
		return []string{entry.Path}
	}
	return nil
}
