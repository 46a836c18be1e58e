package grid

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"unicode/utf8"
)

// DefaultGap is the space between neighbouring cells.
const DefaultGap = 2.0

// MaxCells bounds rows*columns.
const MaxCells = 1 << 22

// Cell is a copy of one grid cell.
type Cell struct {
	Row, Column int
	Text        string
	Written     bool
	Classes     []string
}

// HasClass reports whether the cell carries the class tag.
func (c Cell) HasClass(name string) bool {
	for _, cl := range c.Classes {
		if cl == name {
			return true
		}
	}
	return false
}

// Layout is the geometry shared by all cells.
type Layout struct {
	Rows     int
	Columns  int
	Gap      float64
	CellSize float64
	FontSize float64
}

// Listener receives grid changes after they are applied.
type Listener interface {
	CellChanged(c Cell)
	LayoutChanged(l Layout)
}

type cell struct {
	text    string
	written bool
	classes map[string]struct{}
}

// Grid is a rows x columns matrix of square cells sharing one font size.
type Grid struct {
	Rows       int
	Columns    int
	Stylesheet string
	Gap        float64

	mu         sync.Mutex
	cells      []cell
	container  Container
	stop       func()
	measurer   Measurer
	listener   Listener
	logger     *slog.Logger
	cellSize   float64
	fontSize   float64
	longest    int
	longestLen int
}

type Option func(*Grid)

func WithGap(gap float64) Option {
	return func(g *Grid) { g.Gap = gap }
}

func WithMeasurer(m Measurer) Option {
	return func(g *Grid) { g.measurer = m }
}

func WithListener(l Listener) Option {
	return func(g *Grid) { g.listener = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Grid) { g.logger = l }
}

// New creates a detached grid. An empty stylesheet is logged and may be set
// on the Stylesheet field before Attach.
func New(rows, columns int, stylesheet string, opts ...Option) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, &PreconditionError{
			Op:     "new",
			Reason: fmt.Sprintf("dimensions must be positive, got %dx%d", rows, columns),
		}
	}
	if rows > MaxCells/columns {
		return nil, &PreconditionError{
			Op:     "new",
			Reason: fmt.Sprintf("%dx%d exceeds the limit of %d cells", rows, columns, MaxCells),
		}
	}
	g := &Grid{
		Rows:       rows,
		Columns:    columns,
		Stylesheet: stylesheet,
		Gap:        DefaultGap,
		measurer:   DefaultMeasurer,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		longest:    -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if stylesheet == "" {
		g.logger.Warn("grid created without stylesheet; set Grid.Stylesheet before Attach",
			"rows", rows, "columns", columns)
	}
	return g, nil
}

// SetListener replaces the change listener. A nil listener disables events.
func (g *Grid) SetListener(l Listener) {
	g.mu.Lock()
	g.listener = l
	g.mu.Unlock()
}

// Attach builds the cells inside c, fits them and starts observing resizes.
func (g *Grid) Attach(c Container) error {
	g.mu.Lock()
	if g.container != nil {
		g.mu.Unlock()
		return &PreconditionError{Op: "attach", Reason: "grid is already attached"}
	}
	if g.Rows <= 0 || g.Columns <= 0 {
		g.mu.Unlock()
		return &PreconditionError{
			Op:     "attach",
			Reason: fmt.Sprintf("grid dimensions are not defined (%dx%d)", g.Rows, g.Columns),
		}
	}

	if g.Stylesheet == "" {
		g.logger.Warn("attaching grid without stylesheet")
	} else if loader, ok := c.(StylesheetLoader); ok {
		loader.LoadStylesheet(g.Stylesheet)
	}

	g.container = c
	g.cells = make([]cell, g.Rows*g.Columns)
	g.longest = -1
	g.longestLen = 0
	g.fontSize = 0
	g.layoutLocked()
	g.stop = c.Observe(g.handleResize)

	layout := g.layoutSnapshotLocked()
	l := g.listener
	g.mu.Unlock()

	g.logger.Debug("grid attached", "rows", layout.Rows, "columns", layout.Columns, "cell_size", layout.CellSize)
	if l != nil {
		l.LayoutChanged(layout)
	}
	return nil
}

// Detach stops observing the container. Cells are kept for reading.
func (g *Grid) Detach() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stop != nil {
		g.stop()
		g.stop = nil
	}
	if g.container != nil {
		g.logger.Debug("grid detached")
	}
	g.container = nil
}

func (g *Grid) Attached() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.container != nil
}

func (g *Grid) handleResize() {
	if err := g.Resize(); err != nil {
		g.logger.Warn("resize ignored", "err", err)
	}
}

// Resize recomputes the cell size from the container and refits the font.
func (g *Grid) Resize() error {
	g.mu.Lock()
	if g.container == nil {
		g.mu.Unlock()
		return &PreconditionError{Op: "resize", Reason: "grid is not attached to a container"}
	}
	g.layoutLocked()
	layout := g.layoutSnapshotLocked()
	l := g.listener
	g.mu.Unlock()

	if l != nil {
		l.LayoutChanged(layout)
	}
	return nil
}

func (g *Grid) layoutLocked() {
	w, h := g.container.Size()
	g.cellSize = CellSize(w, h, g.Rows, g.Columns, g.Gap)
	g.fitLocked()
}

// fitLocked refits the font against the longest-text cell. Without such a
// cell the previous size stays.
func (g *Grid) fitLocked() {
	if g.longest < 0 {
		return
	}
	g.fontSize = FitFontSize(g.measurer, g.cells[g.longest].text, g.cellSize)
	g.logger.Debug("font size fitted", "font_size", g.fontSize, "cell_size", g.cellSize)
}

func (g *Grid) layoutSnapshotLocked() Layout {
	return Layout{
		Rows:     g.Rows,
		Columns:  g.Columns,
		Gap:      g.Gap,
		CellSize: g.cellSize,
		FontSize: g.fontSize,
	}
}

func (g *Grid) indexLocked(row, column int) (int, error) {
	if row < 0 || column < 0 || row >= g.Rows || column >= g.Columns {
		return 0, &IndexError{Row: row, Column: column, Rows: g.Rows, Columns: g.Columns}
	}
	if len(g.cells) == 0 {
		return 0, &PreconditionError{
			Op:     "address",
			Reason: "grid has no cells; attach it to a container first",
		}
	}
	return row*g.Columns + column, nil
}

func (g *Grid) cellLocked(idx int) Cell {
	c := g.cells[idx]
	out := Cell{
		Row:     idx / g.Columns,
		Column:  idx % g.Columns,
		Text:    c.text,
		Written: c.written,
	}
	if len(c.classes) > 0 {
		out.Classes = make([]string, 0, len(c.classes))
		for name := range c.classes {
			out.Classes = append(out.Classes, name)
		}
		sort.Strings(out.Classes)
	}
	return out
}

// ElementAt returns a copy of the cell at (row, column).
func (g *Grid) ElementAt(row, column int) (Cell, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx, err := g.indexLocked(row, column)
	if err != nil {
		return Cell{}, err
	}
	return g.cellLocked(idx), nil
}

// TextAt returns the text of a written cell.
func (g *Grid) TextAt(row, column int) (string, error) {
	c, err := g.ElementAt(row, column)
	if err != nil {
		return "", err
	}
	if !c.Written {
		return "", &NotFoundError{Row: row, Column: column}
	}
	return c.Text, nil
}

// TextAtOrEmpty is TextAt that reports false instead of failing on
// out-of-range coordinates.
func (g *Grid) TextAtOrEmpty(row, column int) (string, bool) {
	if row < 0 || column < 0 || row >= g.Rows || column >= g.Columns {
		return "", false
	}
	text, err := g.TextAt(row, column)
	if err != nil {
		return "", false
	}
	return text, true
}

// SetText writes value's string form into the cell. A new longest text
// refits the font using the live container size.
func (g *Grid) SetText(row, column int, value any) error {
	if value == nil {
		return &PreconditionError{
			Op:     "set text",
			Reason: fmt.Sprintf("attempted to write nil at (%d, %d)", row, column),
		}
	}
	text := fmt.Sprint(value)

	g.mu.Lock()
	if g.container == nil {
		g.mu.Unlock()
		return &PreconditionError{Op: "set text", Reason: "grid is not attached to a container"}
	}
	idx, err := g.indexLocked(row, column)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	g.cells[idx].text = text
	g.cells[idx].written = true

	relaid := false
	if n := utf8.RuneCountInString(text); n > g.longestLen {
		g.longestLen = n
		g.longest = idx
		g.layoutLocked()
		relaid = true
	}
	changed := g.cellLocked(idx)
	layout := g.layoutSnapshotLocked()
	l := g.listener
	g.mu.Unlock()

	if l != nil {
		l.CellChanged(changed)
		if relaid {
			l.LayoutChanged(layout)
		}
	}
	return nil
}

// AddClass tags the cell with name.
func (g *Grid) AddClass(row, column int, name string) error {
	return g.updateClass(row, column, func(c *cell) bool {
		if _, ok := c.classes[name]; ok {
			return false
		}
		if c.classes == nil {
			c.classes = make(map[string]struct{})
		}
		c.classes[name] = struct{}{}
		return true
	})
}

// RemoveClass removes the tag from the cell.
func (g *Grid) RemoveClass(row, column int, name string) error {
	return g.updateClass(row, column, func(c *cell) bool {
		if _, ok := c.classes[name]; !ok {
			return false
		}
		delete(c.classes, name)
		return true
	})
}

func (g *Grid) updateClass(row, column int, fn func(*cell) bool) error {
	g.mu.Lock()
	idx, err := g.indexLocked(row, column)
	if err != nil {
		g.mu.Unlock()
		return err
	}
	if !fn(&g.cells[idx]) {
		g.mu.Unlock()
		return nil
	}
	changed := g.cellLocked(idx)
	l := g.listener
	g.mu.Unlock()

	if l != nil {
		l.CellChanged(changed)
	}
	return nil
}

func (g *Grid) CellSize() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cellSize
}

func (g *Grid) FontSize() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fontSize
}

// Longest returns the address and length of the longest text written so far.
func (g *Grid) Longest() (row, column, length int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.longest < 0 {
		return 0, 0, 0, false
	}
	return g.longest / g.Columns, g.longest % g.Columns, g.longestLen, true
}

// Refit reruns the font fit for the current longest-text cell without
// re-reading the container.
func (g *Grid) Refit() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fitLocked()
	return g.fontSize
}

// Snapshot is a consistent copy of layout and cells for renderers.
type Snapshot struct {
	Layout
	Cells []Cell
}

// At returns the snapshot cell at (row, column), or a zero Cell.
func (s Snapshot) At(row, column int) Cell {
	if row < 0 || column < 0 || row >= s.Rows || column >= s.Columns {
		return Cell{}
	}
	idx := row*s.Columns + column
	if idx >= len(s.Cells) {
		return Cell{Row: row, Column: column}
	}
	return s.Cells[idx]
}

func (g *Grid) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		Layout: g.layoutSnapshotLocked(),
		Cells:  make([]Cell, len(g.cells)),
	}
	for i := range g.cells {
		s.Cells[i] = g.cellLocked(i)
	}
	return s
}
