// Package grid provides a responsive two-dimensional cell matrix for
// step-by-step visualizations.
//
// A [Grid] keeps its cells square and as large as its [Container] allows,
// and shrinks one shared font size until the longest text written so far
// fits inside a single cell:
//
//   - [Grid]: rows x columns cells addressed by (row, column)
//   - [Container]: anything with a size that can report resizes
//   - [Viewport]: mutable Container used by the terminal and web surfaces
//   - [Measurer]: decides whether text overflows a cell at a font size
//   - [Listener]: mirrors cell and layout changes to a remote surface
//
// # Lifecycle
//
// A grid is created detached and has no cells. [Grid.Attach] loads the
// stylesheet, builds the cells, performs the initial fit and starts
// observing the container. [Grid.Detach] stops observing; every Attach is
// paired with exactly one release of the resize observer.
//
//	g, _ := grid.New(4, 7, "visualisation.css")
//	_ = g.Attach(grid.NewViewport(640, 480))
//	defer g.Detach()
//	_ = g.SetText(0, 1, 0)
//
// # Thread Safety
//
// Grid methods are safe for concurrent use. Resize callbacks may interleave
// with writers; they only touch layout, never cell text.
package grid
