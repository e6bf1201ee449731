package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/burrow/internal/core"
	"github.com/lumipallolabs/burrow/internal/logging"
	"github.com/lumipallolabs/burrow/internal/remover"
)

// ViewMode selects what the body of the screen shows
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewLargeFiles
	ViewTreemap
)

// eventMsg wraps a controller event for the bubbletea loop
type eventMsg struct {
	event core.Event
}

// infoMsg carries the result of an entry inspection
type infoMsg struct {
	info FileInfo
	err  error
}

// App is the main application model. It owns the navigator state machine
// and translates controller events and key presses into transitions.
type App struct {
	ctrl *core.Controller
	nav  *core.Navigator

	header Header
	keys   KeyMap
	help   help.Model
	spin   spinner.Model
	prog   progress.Model
	files  table.Model

	view     ViewMode
	showInfo bool
	info     FileInfo

	freedSession int64

	deleteDone  int
	deleteTotal int
	deletePath  string

	width  int
	height int
}

// NewApp wires the application around a running controller
func NewApp(ctrl *core.Controller) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	a := App{
		ctrl:   ctrl,
		nav:    core.NewNavigator(ctrl.Root()),
		header: NewHeader(ctrl.Root()),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		spin:   sp,
		prog:   progress.New(progress.WithDefaultGradient()),
	}
	a.header.SetFreedStats(0, ctrl.FreedLifetime())
	a.header.SetScanning(true)
	return a
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	gen := a.ctrl.StartScan(a.ctrl.Root())
	a.nav.ExpectScan(gen)
	return tea.Batch(
		tea.SetWindowTitle("BURROW"),
		a.spin.Tick,
		a.listen(),
	)
}

// listen waits for the next controller event
func (a App) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.ctrl.Events()
		if !ok {
			return nil
		}
		return eventMsg{event: ev}
	}
}

// requestScan asks the controller for a scan and arms the navigator for
// its generation
func (a *App) requestScan(path string) {
	gen := a.ctrl.StartScan(path)
	a.nav.ExpectScan(gen)
	a.header.SetScanning(true)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)
		a.help.Width = msg.Width
		a.prog.Width = msg.Width - 4
		if a.view == ViewLargeFiles {
			a.files = NewLargeFilesTable(a.nav.State().LargeFiles, a.width, a.bodyHeight())
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case eventMsg:
		return a.handleEvent(msg.event)

	case infoMsg:
		if msg.err != nil {
			logging.Debug.Printf("inspect: %v", msg.err)
			return a, nil
		}
		a.info = msg.info
		a.showInfo = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		s := a.nav.State()
		if s.Scanning || s.Phase == core.PhaseDeleting {
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// handleEvent folds a controller event into the navigator
func (a App) handleEvent(ev core.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case core.ScanStartedEvent:
		return a, tea.Batch(a.listen(), a.spin.Tick)

	case core.ScanCompletedEvent:
		if a.nav.ApplyScan(ev.Gen, ev.Path, ev.Result, ev.Err) {
			s := a.nav.State()
			a.header.SetScanning(s.Scanning)
			a.header.SetTotal(s.TotalBytes)
			if a.view == ViewLargeFiles {
				a.files = NewLargeFilesTable(s.LargeFiles, a.width, a.bodyHeight())
			}
		}
		return a, a.listen()

	case core.DeleteProgressEvent:
		a.deleteDone = ev.Done
		a.deleteTotal = ev.Total
		a.deletePath = ev.Path
		return a, a.listen()

	case core.DeleteCompletedEvent:
		var removed []string
		needRescan := false
		for _, o := range ev.Outcomes {
			switch o.Status {
			case remover.StatusRemoved:
				removed = append(removed, o.Path)
			case remover.StatusPartial, remover.StatusFailed:
				needRescan = true
			}
		}
		a.nav.ApplyDeleteOutcome(removed)
		a.deleteDone, a.deleteTotal, a.deletePath = 0, 0, ""

		a.freedSession += ev.Freed
		a.header.SetFreedStats(a.freedSession, a.ctrl.FreedLifetime())
		a.header.SetTotal(a.nav.State().TotalBytes)

		// Partial or failed removals leave sizes we cannot reconstruct
		// locally, so rescan the directory
		if needRescan {
			if path, ok := a.nav.Refresh(); ok {
				a.requestScan(path)
			}
		}
		return a, a.listen()

	case core.PathInvalidatedEvent:
		// Cached sizes along this path are stale; the next navigation
		// rescans naturally
		return a, a.listen()
	}

	return a, a.listen()
}

// handleKey handles keyboard input
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works
	if key.Matches(msg, a.keys.Quit) {
		if err := a.ctrl.Close(); err != nil {
			logging.Debug.Printf("close: %v", err)
		}
		return a, tea.Quit
	}

	// Overlays swallow input until dismissed
	if a.showInfo {
		if key.Matches(msg, a.keys.Info) || key.Matches(msg, a.keys.Cancel) {
			a.showInfo = false
		}
		return a, nil
	}
	if a.help.ShowAll {
		if key.Matches(msg, a.keys.Help) || key.Matches(msg, a.keys.Cancel) {
			a.help.ShowAll = false
		}
		return a, nil
	}

	s := a.nav.State()

	// Confirmation prompt
	if s.Phase == core.PhaseConfirming {
		switch {
		case key.Matches(msg, a.keys.Confirm):
			pending := a.nav.BeginDeletion()
			a.ctrl.StartDelete(pending)
			return a, a.spin.Tick
		case key.Matches(msg, a.keys.Cancel):
			a.nav.CancelDeletion()
		}
		return a, nil
	}

	// Alternate views
	if a.view == ViewLargeFiles {
		switch {
		case key.Matches(msg, a.keys.LargeFiles), key.Matches(msg, a.keys.Cancel):
			a.view = ViewList
			return a, nil
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = true
			return a, nil
		}
		var cmd tea.Cmd
		a.files, cmd = a.files.Update(msg)
		return a, cmd
	}
	if a.view == ViewTreemap {
		switch {
		case key.Matches(msg, a.keys.Treemap), key.Matches(msg, a.keys.Cancel):
			a.view = ViewList
			return a, nil
		case key.Matches(msg, a.keys.Up):
			a.nav.MoveUp()
			return a, nil
		case key.Matches(msg, a.keys.Down):
			a.nav.MoveDown()
			return a, nil
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = true
			return a, nil
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = true
		return a, nil

	case key.Matches(msg, a.keys.Up):
		a.nav.MoveUp()

	case key.Matches(msg, a.keys.Down):
		a.nav.MoveDown()

	case key.Matches(msg, a.keys.PageUp):
		a.nav.PageUp(a.bodyHeight())

	case key.Matches(msg, a.keys.PageDown):
		a.nav.PageDown(a.bodyHeight())

	case key.Matches(msg, a.keys.Top):
		a.nav.Top()

	case key.Matches(msg, a.keys.Bottom):
		a.nav.Bottom()

	case key.Matches(msg, a.keys.Mark):
		a.nav.ToggleSelect()

	case key.Matches(msg, a.keys.MarkAll):
		a.nav.SelectAll()

	case key.Matches(msg, a.keys.ClearMarks):
		a.nav.ClearSelection()

	case key.Matches(msg, a.keys.Enter):
		entry, ok := s.Current()
		if !ok || !entry.IsDir {
			return a, nil
		}
		_, cached := a.ctrl.CachedSize(entry.Path)
		if path, ok := a.nav.Descend(cached); ok {
			a.requestScan(path)
			a.header.SetPath(path)
			a.header.SetTotal(0)
			return a, a.spin.Tick
		}

	case key.Matches(msg, a.keys.Parent):
		if path, ok := a.nav.Ascend(); ok {
			a.requestScan(path)
			a.header.SetPath(path)
			a.header.SetTotal(0)
			return a, a.spin.Tick
		}

	case key.Matches(msg, a.keys.Refresh):
		if path, ok := a.nav.Refresh(); ok {
			a.ctrl.InvalidateSubtree(path)
			a.requestScan(path)
			return a, a.spin.Tick
		}

	case key.Matches(msg, a.keys.Delete):
		a.nav.RequestDeletion()

	case key.Matches(msg, a.keys.LargeFiles):
		a.files = NewLargeFilesTable(s.LargeFiles, a.width, a.bodyHeight())
		a.view = ViewLargeFiles

	case key.Matches(msg, a.keys.Treemap):
		a.view = ViewTreemap

	case key.Matches(msg, a.keys.Info):
		entry, ok := s.Current()
		if !ok {
			return a, nil
		}
		return a, func() tea.Msg {
			info, err := InspectEntry(entry)
			return infoMsg{info: info, err: err}
		}

	case key.Matches(msg, a.keys.Open):
		target := s.CurrentPath
		if entry, ok := s.Current(); ok && entry.IsDir {
			target = entry.Path
		}
		if err := openInFileManager(target); err != nil {
			logging.Debug.Printf("open %s: %v", target, err)
		}
	}

	return a, nil
}

// bodyHeight is the number of rows between the header and the help bar
func (a App) bodyHeight() int {
	h := a.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model
func (a App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	s := a.nav.State()

	var sections []string
	sections = append(sections, a.header.View())

	switch {
	case s.Phase == core.PhaseLoading:
		loading := a.spin.View() + " scanning " + s.CurrentPath
		sections = append(sections, lipgloss.Place(
			a.width, a.bodyHeight(),
			lipgloss.Center, lipgloss.Center,
			loading,
		))

	case s.Phase == core.PhaseDeleting:
		body := a.spin.View() + " deleting " + a.deletePath
		if a.deleteTotal > 0 {
			body += "\n\n" + a.prog.ViewAs(float64(a.deleteDone)/float64(a.deleteTotal))
		}
		sections = append(sections, lipgloss.Place(
			a.width, a.bodyHeight(),
			lipgloss.Center, lipgloss.Center,
			body,
		))

	case a.view == ViewLargeFiles:
		sections = append(sections, a.files.View())

	case a.view == ViewTreemap:
		sections = append(sections, RenderTreemap(s, a.width, a.bodyHeight()))

	default:
		sections = append(sections, RenderEntries(s, a.width, a.bodyHeight()))
		if status := RenderStatus(s, a.width); status != "" {
			sections = append(sections, status)
		}
	}

	sections = append(sections, a.help.View(a.keys))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if s.Phase == core.PhaseConfirming {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			RenderConfirm(s),
			lipgloss.WithWhitespaceChars(" "),
		)
	}
	if a.showInfo {
		return lipgloss.Place(
			a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			a.info.View(),
			lipgloss.WithWhitespaceChars(" "),
		)
	}

	return content
}
