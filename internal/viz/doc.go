// Package viz provides the interactive terminal front end for the knapsack
// animation.
//
// The package implements a Bubble Tea application with two screens:
//
//   - a form collecting capacity, weights, prices and the step delay
//   - the board: the DP grid rendered with lipgloss, the status line of the
//     entry being computed and a profit-by-capacity chart
//
// The terminal window is the grid's container: every WindowSizeMsg resizes
// a [grid.Viewport], and the grid refits its cells and font size.
//
// # Key Bindings
//
//	Enter - Start a run from the form
//	N     - Back to the form (cancels the run)
//	+/-   - Change the step delay while running
//	Space - Pause/Resume
//	T     - Cycle color themes
//	Y     - Copy the table as CSV
//	?     - Show help
package viz
