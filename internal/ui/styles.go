package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorSuccess = lipgloss.Color("#73F59F")
	ColorWarning = lipgloss.Color("#F5A623")
	ColorDanger  = lipgloss.Color("#F56565")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorBorder  = lipgloss.Color("#3F3F46")
	ColorDir     = lipgloss.Color("#22D3EE")
	ColorFile    = lipgloss.Color("#9CA3AF")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F1F23")).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StatsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7"))

	ListItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4E7"))

	ListItemSelected = lipgloss.NewStyle().
				Background(ColorPrimary).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	DirStyle  = lipgloss.NewStyle().Foreground(ColorDir)
	FileStyle = lipgloss.NewStyle().Foreground(ColorFile)

	MarkStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	SizeBarStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	ProtectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	ConfirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDanger).
			Padding(1, 2)

	OverlayBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	FreedStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// FormatSize formats bytes with a binary unit ladder, one decimal above KB
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// SizeBar renders a proportion bar of the given width, filled relative to max
func SizeBar(size, max int64, width int) string {
	if width < 1 {
		return ""
	}
	if max <= 0 {
		return strings.Repeat("░", width)
	}

	pct := float64(size) / float64(max)
	filledFloat := pct * float64(width)
	filled := int(filledFloat)

	var bar strings.Builder
	for j := 0; j < width; j++ {
		if j < filled {
			bar.WriteRune('█')
		} else if float64(j) < filledFloat+0.5 && filled < width {
			bar.WriteRune('▓')
		} else {
			bar.WriteRune('░')
		}
	}
	return bar.String()
}
