package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

// TerminalMeasurer treats one character as one column at font size 1. A
// fitted font size below 1 means the longest text no longer fits a cell.
var TerminalMeasurer = grid.MonoMeasurer{Advance: 1, LineHeight: 1}

// TerminalGap separates board cells by one column.
const TerminalGap = 1.0

// ViewportSize converts a terminal area into grid container units. Terminal
// lines are about twice as tall as columns are wide, so one line counts as
// two units and cells come out square on screen.
func ViewportSize(columns, lines int) (float64, float64) {
	return float64(max(columns, 0)), float64(max(lines, 0) * 2)
}

// CellBox is the on-screen size of one cell for a layout.
func CellBox(l grid.Layout) (width, height int) {
	width = max(1, int(math.Floor(l.CellSize)))
	height = max(1, int(math.Floor(l.CellSize/2)))
	return width, height
}

// RenderBoard draws a grid snapshot with lipgloss. Cells are styled by their
// class tags; text wider than a cell is truncated.
func RenderBoard(snap grid.Snapshot, theme Theme) string {
	if snap.Rows == 0 || snap.Columns == 0 || len(snap.Cells) == 0 {
		return ""
	}
	styles := theme.CellStyles()
	w, h := CellBox(snap.Layout)
	gap := strings.Repeat(" ", int(snap.Gap))

	rows := make([]string, snap.Rows)
	for r := 0; r < snap.Rows; r++ {
		cells := make([]string, 0, 2*snap.Columns)
		for c := 0; c < snap.Columns; c++ {
			if c > 0 && gap != "" {
				cells = append(cells, gap)
			}
			cells = append(cells, renderCell(snap.At(r, c), styles, w, h))
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(c grid.Cell, styles CellStyles, w, h int) string {
	style := styles.Empty
	text := "·"
	if c.Written {
		text = c.Text
		style = styles.Value
	}
	switch {
	case c.HasClass(knapsack.ClassCurrent):
		style = styles.Current
	case c.HasClass(knapsack.ClassSource):
		style = styles.Source
	case c.HasClass(knapsack.ClassHeading):
		style = styles.Heading
	}
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, "…")
	}
	return style.Width(w).Height(h).MaxWidth(w).Render(text)
}
