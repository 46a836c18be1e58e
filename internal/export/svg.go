package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

// Palette holds the hex colors of a rendered grid.
type Palette struct {
	Background string
	Cell       string
	Text       string
	Heading    string
	Current    string
	Source     string
}

var DefaultPalette = Palette{
	Background: "#0a0a0a",
	Cell:       "#1c1c2a",
	Text:       "#ffffff",
	Heading:    "#00ffff",
	Current:    "#ff00ff",
	Source:     "#ffff00",
}

// Size returns the pixel size of the laid out grid.
func Size(l grid.Layout) (width, height float64) {
	width = float64(l.Columns)*l.CellSize + float64(l.Columns-1)*l.Gap
	height = float64(l.Rows)*l.CellSize + float64(l.Rows-1)*l.Gap
	return max(width, 0), max(height, 0)
}

func cellOrigin(l grid.Layout, row, column int) (x, y float64) {
	return float64(column) * (l.CellSize + l.Gap), float64(row) * (l.CellSize + l.Gap)
}

// fills returns background and text color of a cell.
func (p Palette) fills(c grid.Cell) (bg, fg string) {
	switch {
	case c.HasClass(knapsack.ClassCurrent):
		return p.Current, p.Background
	case c.HasClass(knapsack.ClassSource):
		return p.Source, p.Background
	case c.HasClass(knapsack.ClassHeading):
		return p.Cell, p.Heading
	}
	return p.Cell, p.Text
}

// GridToSVG converts a grid snapshot to SVG, one rect and text per cell.
func GridToSVG(snap grid.Snapshot, p Palette) string {
	width, height := Size(snap.Layout)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.2f %.2f">
<rect width="100%%" height="100%%" fill="%s"/>
<g font-family="monospace" font-size="%.2f" text-anchor="middle" dominant-baseline="central">
`, width, height, width, height, p.Background, snap.FontSize))

	for _, c := range snap.Cells {
		x, y := cellOrigin(snap.Layout, c.Row, c.Column)
		bg, fg := p.fills(c)
		sb.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, x, y, snap.CellSize, snap.CellSize, bg))
		if c.Written && snap.FontSize > 0 {
			half := snap.CellSize / 2
			sb.WriteString(fmt.Sprintf(`<text x="%.2f" y="%.2f" fill="%s">%s</text>
`, x+half, y+half, fg, html.EscapeString(c.Text)))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
