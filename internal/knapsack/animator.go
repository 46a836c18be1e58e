package knapsack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Class tags placed on the board while an entry is being computed.
const (
	ClassCurrent = "current"
	ClassSource  = "source"
	ClassHeading = "heading"
)

// Board is the display the animator writes to. *grid.Grid satisfies it.
type Board interface {
	SetText(row, column int, value any) error
	AddClass(row, column int, name string) error
	RemoveClass(row, column int, name string) error
}

type State int

const (
	Idle State = iota
	HeadingsWritten
	Filling
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HeadingsWritten:
		return "headings written"
	case Filling:
		return "filling"
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type StepKind int

const (
	ColumnHeadings StepKind = iota
	RowHeadings
	TableEntry
)

// Step describes what one Advance call wrote.
type Step struct {
	Kind   StepKind
	N, W   int
	Value  int
	Status string
}

type boardRef struct{ row, col int }

// Animator fills a Table and its Board one entry per Advance.
type Animator struct {
	capacity int
	weights  []int
	prices   []int
	table    *Table
	board    Board

	highlight bool
	status    func(string)
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	headings int
	n, w     int
	written  int
	marked   []boardRef
}

type Option func(*Animator)

// WithStatus publishes the human-readable description of every entry.
func WithStatus(fn func(string)) Option {
	return func(a *Animator) { a.status = fn }
}

// WithHighlight toggles the current/source classes on the board.
func WithHighlight(on bool) Option {
	return func(a *Animator) { a.highlight = on }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// New validates the problem and allocates an unset table. The board must
// have capacity+2 columns and len(weights)+2 rows.
func New(board Board, capacity int, weights, prices []int, opts ...Option) (*Animator, error) {
	if err := Validate(capacity, weights, prices); err != nil {
		return nil, err
	}
	a := &Animator{
		capacity:  capacity,
		weights:   append([]int(nil), weights...),
		prices:    append([]int(nil), prices...),
		table:     NewTable(len(weights), capacity),
		board:     board,
		highlight: true,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Animator) Capacity() int  { return a.capacity }
func (a *Animator) Items() int     { return len(a.weights) }
func (a *Animator) Weights() []int { return append([]int(nil), a.weights...) }
func (a *Animator) Prices() []int  { return append([]int(nil), a.prices...) }

// Table returns a snapshot copy of the DP table.
func (a *Animator) Table() *Table {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := NewTable(a.table.Items, a.table.Capacity)
	for n, row := range a.table.cells {
		copy(t.cells[n], row)
	}
	return t
}

func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Finished reports whether the animation reached Done or Cancelled.
func (a *Animator) Finished() bool {
	s := a.State()
	return s == Done || s == Cancelled
}

// Progress returns how many of the table entries are written. The count
// survives cancellation.
func (a *Animator) Progress() (written, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.written, (len(a.weights) + 1) * (a.capacity + 1)
}

// Answer returns table[N][capacity] and whether the table is complete.
func (a *Animator) Answer() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Done {
		return 0, false
	}
	return a.table.At(len(a.weights), a.capacity), true
}

// Selection returns the chosen item indexes once Done.
func (a *Animator) Selection() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Done {
		return nil
	}
	return a.table.Selection(a.weights)
}

// Cancel marks an unfinished animation as cancelled.
func (a *Animator) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Done {
		a.state = Cancelled
	}
}

// Advance performs the next step: the column headings, the row headings,
// then one table entry in item-major order.
func (a *Animator) Advance() (Step, error) {
	return a.advance(context.Background())
}

// advance refuses to write once ctx is done. The check happens under a.mu,
// so a cancelled run writes nothing after its next step boundary.
func (a *Animator) advance(ctx context.Context) (Step, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if ctx.Err() != nil && a.state != Done {
		a.state = Cancelled
		return Step{}, ctx.Err()
	}
	switch a.state {
	case Done, Cancelled:
		return Step{}, ErrFinished
	case Idle:
		if a.headings == 0 {
			a.headings++
			return a.writeColumnHeadings()
		}
		a.headings++
		step, err := a.writeRowHeadings()
		if err == nil {
			a.state = HeadingsWritten
		}
		return step, err
	case HeadingsWritten:
		a.state = Filling
		a.n, a.w = 0, 0
	}
	return a.writeEntry()
}

func (a *Animator) writeColumnHeadings() (Step, error) {
	for w := 0; w <= a.capacity; w++ {
		if err := a.board.SetText(0, w+1, w); err != nil {
			return Step{}, err
		}
		if a.highlight {
			if err := a.board.AddClass(0, w+1, ClassHeading); err != nil {
				return Step{}, err
			}
		}
	}
	return Step{Kind: ColumnHeadings}, nil
}

func (a *Animator) writeRowHeadings() (Step, error) {
	for n := 0; n <= len(a.weights); n++ {
		if err := a.board.SetText(n+1, 0, n); err != nil {
			return Step{}, err
		}
		if a.highlight {
			if err := a.board.AddClass(n+1, 0, ClassHeading); err != nil {
				return Step{}, err
			}
		}
	}
	return Step{Kind: RowHeadings}, nil
}

func (a *Animator) writeEntry() (Step, error) {
	n, w := a.n, a.w
	if err := a.clearMarks(); err != nil {
		return Step{}, err
	}

	value, sources := Entry(a.table, a.weights, a.prices, n, w)
	if err := a.table.Set(n, w, value); err != nil {
		return Step{}, err
	}
	if err := a.board.SetText(n+1, w+1, value); err != nil {
		return Step{}, err
	}
	if a.highlight {
		if err := a.mark(n+1, w+1, ClassCurrent); err != nil {
			return Step{}, err
		}
		for _, sw := range sources {
			if err := a.mark(n, sw+1, ClassSource); err != nil {
				return Step{}, err
			}
		}
	}

	status := a.describe(n, w)
	a.logger.Debug("entry computed", "n", n, "w", w, "value", value)
	if a.status != nil {
		a.status(status)
	}

	a.written++
	a.w++
	if a.w > a.capacity {
		a.w = 0
		a.n++
	}
	if a.n > len(a.weights) {
		a.state = Done
		if err := a.clearMarks(); err != nil {
			return Step{}, err
		}
	}
	return Step{Kind: TableEntry, N: n, W: w, Value: value, Status: status}, nil
}

func (a *Animator) mark(row, col int, class string) error {
	if err := a.board.AddClass(row, col, class); err != nil {
		return err
	}
	a.marked = append(a.marked, boardRef{row, col})
	return nil
}

func (a *Animator) clearMarks() error {
	for _, ref := range a.marked {
		if err := a.board.RemoveClass(ref.row, ref.col, ClassCurrent); err != nil {
			return err
		}
		if err := a.board.RemoveClass(ref.row, ref.col, ClassSource); err != nil {
			return err
		}
	}
	a.marked = a.marked[:0]
	return nil
}

// describe names the subproblem being solved at (n, w).
func (a *Animator) describe(n, w int) string {
	return fmt.Sprintf("Node: W=%d, P=[%s], Wt=[%s]", w, joinInts(a.prices[:n]), joinInts(a.weights[:n]))
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}

// Run advances to completion, waiting on p before every step. A nil p does
// not wait. A cancelled context stops the run before its next write.
func (a *Animator) Run(ctx context.Context, p Pacer) error {
	if p == nil {
		p = NewDelay(0)
	}
	for !a.Finished() {
		if err := p.Wait(ctx); err != nil {
			a.Cancel()
			return err
		}
		if _, err := a.advance(ctx); err != nil {
			if ctx.Err() != nil {
				a.Cancel()
				return ctx.Err()
			}
			return err
		}
	}
	if a.State() == Cancelled {
		if err := ctx.Err(); err != nil {
			return err
		}
		return context.Canceled
	}
	return nil
}
