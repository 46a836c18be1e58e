package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
	"github.com/san-kum/knapviz/internal/viz"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a grid on a plain terminal whenever a cell changes,
// at most frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	theme     viz.Theme
	now       func() time.Time

	mu        sync.Mutex
	grid      *grid.Grid
	status    string
	lastFrame time.Time
	frames    int
}

func NewLiveRenderer(out io.Writer, frameRate int, theme viz.Theme) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		theme:     theme,
		now:       time.Now,
	}
}

// Bind makes r the listener of g. It fits knapsack.SessionConfig.OnGrid.
func (r *LiveRenderer) Bind(g *grid.Grid) {
	r.mu.Lock()
	r.grid = g
	r.mu.Unlock()
	g.SetListener(r)
}

func (r *LiveRenderer) CellChanged(grid.Cell) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameRate > 0 {
		if r.now().Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
	}
	r.renderLocked()
}

func (r *LiveRenderer) LayoutChanged(grid.Layout) {}

// OnStatus records the status line shown under the next frame.
func (r *LiveRenderer) OnStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Flush draws a frame regardless of the frame rate.
func (r *LiveRenderer) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderLocked()
}

func (r *LiveRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *LiveRenderer) renderLocked() {
	if r.grid == nil {
		return
	}
	r.lastFrame = r.now()
	r.frames++

	snap := r.grid.Snapshot()
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  knapsack  %dx%d  cell=%.1f font=%.1f\n", snap.Rows, snap.Columns, snap.CellSize, snap.FontSize))
	b.WriteString(viz.RenderBoard(snap, r.theme))
	b.WriteString("\n")
	if r.status != "" {
		b.WriteString("  " + r.status + "\n")
	}
	fmt.Fprint(r.out, b.String())
}

// Summary prints the answer, the chosen items and the profit chart of a
// finished animation.
func (r *LiveRenderer) Summary(a *knapsack.Animator) {
	answer, ok := a.Answer()
	if !ok {
		fmt.Fprintf(r.out, "\n  run %s\n", a.State())
		return
	}
	weights, prices := a.Weights(), a.Prices()
	fmt.Fprintf(r.out, "\n  best profit: %d\n", answer)
	for _, i := range a.Selection() {
		fmt.Fprintf(r.out, "  item %d  weight=%d price=%d\n", i, weights[i], prices[i])
	}
	if chart := viz.ProfitChart(a.Table(), 8, 60); chart != "" {
		fmt.Fprintf(r.out, "\n%s\n", chart)
	}
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
