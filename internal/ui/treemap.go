package ui

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeffwilliams/squarify"

	"github.com/lumipallolabs/burrow/internal/core"
	"github.com/lumipallolabs/burrow/internal/model"
)

const (
	minBlockWidth   = 8 // fits a short label
	minBlockHeight  = 3 // border plus one line of text
	maxTreemapItems = 15
)

// treemapItem wraps an entry for the squarify algorithm
type treemapItem struct {
	entry    model.Entry
	size     float64
	children []*treemapItem
}

// Size implements squarify.TreeSizer
func (t *treemapItem) Size() float64 {
	return t.size
}

// NumChildren implements squarify.TreeSizer
func (t *treemapItem) NumChildren() int {
	return len(t.children)
}

// Child implements squarify.TreeSizer
func (t *treemapItem) Child(i int) squarify.TreeSizer {
	return t.children[i]
}

// treemapBlock is one laid-out rectangle
type treemapBlock struct {
	entry         model.Entry
	x, y          int
	width, height int
	selected      bool
}

// RenderTreemap renders a one-level treemap of the current directory. The
// largest entries get blocks proportional to their size; anything past
// maxTreemapItems is folded into the remaining space implicitly.
func RenderTreemap(s core.State, width, height int) string {
	entries := s.Entries
	if len(entries) == 0 {
		return HelpStyle.Render("nothing to map")
	}

	items := make([]*treemapItem, 0, len(entries))
	for _, e := range entries {
		size := float64(e.Size)
		if size < 1 {
			size = 1
		}
		items = append(items, &treemapItem{entry: e, size: size})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})
	if len(items) > maxTreemapItems {
		items = items[:maxTreemapItems]
	}

	root := &treemapItem{children: items}
	for _, it := range items {
		root.size += it.size
	}

	rect := squarify.Rect{W: float64(width), H: float64(height)}
	blocks, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	var selectedPath string
	if cur, ok := s.Current(); ok {
		selectedPath = cur.Path
	}

	var laid []treemapBlock
	for i, block := range blocks {
		item, ok := block.TreeSizer.(*treemapItem)
		if !ok || i >= len(metas) || metas[i].Depth != 0 {
			continue
		}

		x := int(math.Round(block.X))
		y := int(math.Round(block.Y))
		w := int(math.Round(block.X+block.W)) - x
		h := int(math.Round(block.Y+block.H)) - y
		if x+w > width {
			w = width - x
		}
		if y+h > height {
			h = height - y
		}
		if w < minBlockWidth || h < minBlockHeight {
			continue
		}

		laid = append(laid, treemapBlock{
			entry:    item.entry,
			x:        x,
			y:        y,
			width:    w,
			height:   h,
			selected: item.entry.Path == selectedPath,
		})
	}

	return compositeBlocks(laid, width, height)
}

func renderTreemapBlock(b treemapBlock) string {
	fg := ColorFile
	border := ColorBorder
	if b.entry.IsDir {
		fg = ColorDir
		border = ColorDir
	}
	if b.selected {
		fg = lipgloss.Color("#FFFFFF")
		border = ColorPrimary
	}

	text := b.entry.Name
	if b.height > 3 {
		text += "\n" + FormatSize(b.entry.Size)
	}

	style := lipgloss.NewStyle().
		Width(b.width - 2).
		Height(b.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(fg)
	if b.selected {
		style = style.Bold(true)
	}
	return style.Render(text)
}

// compositeBlocks paints the rendered blocks onto a width×height canvas,
// row by row, padding the gaps with spaces
func compositeBlocks(blocks []treemapBlock, width, height int) string {
	type rendered struct {
		block treemapBlock
		lines []string
	}
	all := make([]rendered, 0, len(blocks))
	for _, b := range blocks {
		all = append(all, rendered{b, strings.Split(renderTreemapBlock(b), "\n")})
	}

	var out []string
	for y := 0; y < height; y++ {
		type segment struct {
			x     int
			width int
			line  string
		}
		var segs []segment
		for _, r := range all {
			idx := y - r.block.y
			if idx >= 0 && idx < len(r.lines) && idx < r.block.height {
				segs = append(segs, segment{r.block.x, r.block.width, r.lines[idx]})
			}
		}
		sort.Slice(segs, func(i, j int) bool { return segs[i].x < segs[j].x })

		var line strings.Builder
		cur := 0
		for _, seg := range segs {
			if seg.x > cur {
				line.WriteString(strings.Repeat(" ", seg.x-cur))
			}
			line.WriteString(seg.line)
			cur = seg.x + seg.width
		}
		out = append(out, line.String())
	}
	return strings.Join(out, "\n")
}
