package export

import (
	"context"
	"fmt"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
)

// Solved lays out a grid of the given pixel size, animates the problem into
// it without delay and returns the final snapshot.
func Solved(capacity int, weights, prices []int, width, height float64, opts ...grid.Option) (grid.Snapshot, *knapsack.Animator, error) {
	if err := knapsack.Validate(capacity, weights, prices); err != nil {
		return grid.Snapshot{}, nil, err
	}
	g, err := grid.New(len(weights)+2, capacity+2, "export.css", opts...)
	if err != nil {
		return grid.Snapshot{}, nil, err
	}
	if err := g.Attach(grid.NewViewport(width, height)); err != nil {
		return grid.Snapshot{}, nil, err
	}
	defer g.Detach()

	a, err := knapsack.New(g, capacity, weights, prices)
	if err != nil {
		return grid.Snapshot{}, nil, err
	}
	if err := a.Run(context.Background(), nil); err != nil {
		return grid.Snapshot{}, nil, fmt.Errorf("export: fill grid: %w", err)
	}
	return g.Snapshot(), a, nil
}
