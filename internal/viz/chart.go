package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/knapviz/internal/knapsack"
)

// LatestRow returns the last fully computed table row and its item count.
func LatestRow(t *knapsack.Table) ([]int, int, bool) {
	for n := t.Items; n >= 0; n-- {
		row := t.Row(n)
		complete := true
		for _, v := range row {
			if v == knapsack.Unset {
				complete = false
				break
			}
		}
		if complete {
			return row, n, true
		}
	}
	return nil, 0, false
}

// ProfitChart plots best profit against capacity for the latest complete
// row. It returns "" until a row with at least two capacities exists.
func ProfitChart(t *knapsack.Table, height, width int) string {
	row, n, ok := LatestRow(t)
	if !ok || len(row) < 2 {
		return ""
	}
	data := make([]float64, len(row))
	for i, v := range row {
		data[i] = float64(v)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("best profit by capacity, %d items", n)),
	)
}
