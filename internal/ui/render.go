package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/burrow/internal/core"
	"github.com/lumipallolabs/burrow/internal/model"
)

const sizeBarWidth = 10

// RenderEntries renders the ranked entry list for the browsing view. The
// window of visible rows follows the cursor; height caps the rows drawn.
func RenderEntries(s core.State, width, height int) string {
	if len(s.Entries) == 0 {
		if s.Scanning {
			return HelpStyle.Render("scanning…")
		}
		return HelpStyle.Render("empty directory")
	}
	if height < 1 {
		height = 1
	}

	first := 0
	if s.Cursor >= height {
		first = s.Cursor - height + 1
	}
	last := first + height
	if last > len(s.Entries) {
		last = len(s.Entries)
	}

	maxSize := s.Entries[0].Size

	var b strings.Builder
	for i := first; i < last; i++ {
		e := s.Entries[i]
		b.WriteString(renderEntryRow(e, s, i, maxSize, width))
		if i < last-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderEntryRow(e model.Entry, s core.State, idx int, maxSize int64, width int) string {
	mark := "  "
	if _, marked := s.Selected[e.Path]; marked {
		mark = MarkStyle.Render("✗ ")
	}

	size := FormatSize(e.Size)
	if !e.SizeKnown {
		size = "…"
	}

	bar := SizeBarStyle.Render(SizeBar(e.Size, maxSize, sizeBarWidth))

	name := e.Name
	if e.IsDir {
		name += "/"
	}
	nameWidth := width - sizeBarWidth - 16
	if nameWidth < 8 {
		nameWidth = 8
	}
	if lipgloss.Width(name) > nameWidth {
		runes := []rune(name)
		name = string(runes[:nameWidth-1]) + "…"
	}

	row := fmt.Sprintf("%s%10s %s %s", mark, size, bar, name)

	if idx == s.Cursor {
		return ListItemSelected.Render(row)
	}
	if e.IsDir {
		return DirStyle.Render(row)
	}
	return FileStyle.Render(row)
}

// RenderConfirm renders the deletion confirmation prompt
func RenderConfirm(s core.State) string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render(fmt.Sprintf("Delete %d item(s)?", len(s.Pending))))
	b.WriteByte('\n')

	show := s.Pending
	const maxShown = 8
	if len(show) > maxShown {
		show = show[:maxShown]
	}
	for _, p := range show {
		b.WriteString("\n  " + p)
	}
	if len(s.Pending) > maxShown {
		b.WriteString(fmt.Sprintf("\n  … and %d more", len(s.Pending)-maxShown))
	}

	b.WriteString("\n\n" + HelpStyle.Render("y confirm · n/esc cancel"))
	return ConfirmBoxStyle.Render(b.String())
}

// RenderStatus renders the one-line status strip under the entry list
func RenderStatus(s core.State, width int) string {
	var parts []string

	switch s.Phase {
	case core.PhaseDeleting:
		parts = append(parts, "deleting…")
	case core.PhaseError:
		if s.LastError != nil {
			return ErrorStyle.Render("error: " + s.LastError.Error())
		}
	}

	if len(s.Selected) > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", len(s.Selected)))
	}
	if s.ErrorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d unreadable", s.ErrorCount))
	}
	if len(parts) == 0 {
		return ""
	}
	return HelpStyle.Width(width).Render(strings.Join(parts, " · "))
}
