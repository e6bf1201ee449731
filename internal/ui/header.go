package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/burrow/internal/model"
)

// Header renders the top bar: current path, aggregate size, free space on
// the containing filesystem, and the freed counters.
type Header struct {
	width int

	path          string
	totalBytes    int64
	scanning      bool
	freedSession  int64
	freedLifetime int64
	diskTotal     int64
	diskFree      int64
}

// NewHeader creates the header for the given starting path
func NewHeader(path string) Header {
	h := Header{path: path}
	h.diskTotal, h.diskFree = model.DiskSpace(path)
	return h
}

// SetWidth sets the render width
func (h *Header) SetWidth(w int) {
	h.width = w
}

// SetPath updates the displayed path and refreshes the disk-space figures
func (h *Header) SetPath(path string) {
	h.path = path
	h.diskTotal, h.diskFree = model.DiskSpace(path)
}

// SetTotal updates the aggregate size of the current directory
func (h *Header) SetTotal(bytes int64) {
	h.totalBytes = bytes
}

// SetScanning toggles the scan-in-progress indicator
func (h *Header) SetScanning(scanning bool) {
	h.scanning = scanning
}

// SetFreedStats updates the freed counters
func (h *Header) SetFreedStats(session, lifetime int64) {
	h.freedSession = session
	h.freedLifetime = lifetime
}

// View renders the header bar
func (h Header) View() string {
	title := TitleStyle.Render("BURROW")

	path := StatsStyle.Render(truncatePath(h.path, h.width/2))

	var parts []string
	parts = append(parts, title, path)

	if h.totalBytes > 0 {
		parts = append(parts, StatsStyle.Render(FormatSize(h.totalBytes)))
	}
	if h.scanning {
		parts = append(parts, StatsStyle.Render("scanning…"))
	}
	if h.diskFree > 0 {
		parts = append(parts, StatsStyle.Render(fmt.Sprintf("%s free", FormatSize(h.diskFree))))
	}
	if h.freedSession > 0 || h.freedLifetime > 0 {
		freed := fmt.Sprintf("freed %s · %s all time",
			FormatSize(h.freedSession), FormatSize(h.freedLifetime))
		parts = append(parts, FreedStyle.Render(freed))
	}

	line := strings.Join(parts, "  ")
	return HeaderStyle.Width(h.width).Render(line)
}

// truncatePath shortens a path from the left, keeping the tail visible
func truncatePath(path string, max int) string {
	if max < 4 || lipgloss.Width(path) <= max {
		return path
	}
	runes := []rune(path)
	return "…" + string(runes[len(runes)-(max-1):])
}
