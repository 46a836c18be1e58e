package grid

import "math"

// Measurer reports whether text rendered at fontSize overflows a square box
// of the given side length.
type Measurer interface {
	Overflows(text string, fontSize, box float64) bool
}

// CellSize returns the side of the largest square cell that lets rows x
// columns cells separated by gap fit into width x height.
func CellSize(width, height float64, rows, columns int, gap float64) float64 {
	if rows <= 0 || columns <= 0 {
		return 0
	}
	w := (width - float64(columns-1)*gap) / float64(columns)
	h := (height - float64(rows-1)*gap) / float64(rows)
	return math.Max(0, math.Min(w, h))
}

// FitFontSize starts at half the cell size and steps down one unit at a time
// while text overflows the cell. The result is never negative.
func FitFontSize(m Measurer, text string, cellSize float64) float64 {
	size := cellSize / 2
	for size > 0 && m.Overflows(text, size, cellSize) {
		size--
	}
	if size < 0 {
		return 0
	}
	return size
}
