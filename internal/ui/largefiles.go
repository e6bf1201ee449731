package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumipallolabs/burrow/internal/model"
)

// NewLargeFilesTable builds the large-files view from the records of the
// last completed scan. Records arrive already sorted by size descending.
func NewLargeFilesTable(records []model.LargeFileRecord, width, height int) table.Model {
	pathWidth := width - 14
	if pathWidth < 20 {
		pathWidth = 20
	}

	columns := []table.Column{
		{Title: "Size", Width: 10},
		{Title: "Path", Width: pathWidth},
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{FormatSize(r.Size), r.Path})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(ColorPrimary).
		Bold(true)
	t.SetStyles(styles)

	return t
}
