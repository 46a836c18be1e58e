package knapsack

import "fmt"

// Unset marks a table entry that has not been computed yet.
const Unset = -1

// Table holds best profits: At(n, w) is the best price sum using the first n
// items within capacity w.
type Table struct {
	Items    int
	Capacity int
	cells    [][]int
}

func NewTable(items, capacity int) *Table {
	cells := make([][]int, items+1)
	for n := range cells {
		cells[n] = make([]int, capacity+1)
		for w := range cells[n] {
			cells[n][w] = Unset
		}
	}
	return &Table{Items: items, Capacity: capacity, cells: cells}
}

func (t *Table) inRange(n, w int) bool {
	return n >= 0 && w >= 0 && n <= t.Items && w <= t.Capacity
}

// At returns the entry, or Unset for out-of-range coordinates.
func (t *Table) At(n, w int) int {
	if !t.inRange(n, w) {
		return Unset
	}
	return t.cells[n][w]
}

func (t *Table) IsSet(n, w int) bool {
	return t.At(n, w) != Unset
}

// Set writes an entry exactly once.
func (t *Table) Set(n, w, value int) error {
	if !t.inRange(n, w) {
		return &InvariantError{N: n, W: w, Message: fmt.Sprintf("outside %dx%d table", t.Items+1, t.Capacity+1)}
	}
	if value < 0 {
		return &InvariantError{N: n, W: w, Message: fmt.Sprintf("negative value %d", value)}
	}
	if t.cells[n][w] != Unset {
		return &InvariantError{N: n, W: w, Message: fmt.Sprintf("already holds %d", t.cells[n][w])}
	}
	t.cells[n][w] = value
	return nil
}

// Row returns a copy of row n.
func (t *Table) Row(n int) []int {
	if n < 0 || n > t.Items {
		return nil
	}
	row := make([]int, len(t.cells[n]))
	copy(row, t.cells[n])
	return row
}

// Rows returns a copy of the whole table.
func (t *Table) Rows() [][]int {
	rows := make([][]int, len(t.cells))
	for n := range t.cells {
		rows[n] = t.Row(n)
	}
	return rows
}

// Complete reports whether every entry is set.
func (t *Table) Complete() bool {
	for _, row := range t.cells {
		for _, v := range row {
			if v == Unset {
				return false
			}
		}
	}
	return true
}

// Entry computes table[n][w] from row n-1, which must already be filled.
// It also returns the row n-1 capacities it read.
func Entry(t *Table, weights, prices []int, n, w int) (value int, sources []int) {
	if n == 0 || w == 0 {
		return 0, nil
	}
	wi, pi := weights[n-1], prices[n-1]
	skip := t.At(n-1, w)
	if wi <= w {
		take := pi + t.At(n-1, w-wi)
		return max(take, skip), []int{w, w - wi}
	}
	return skip, []int{w}
}

// Solve fills a table without animation.
func Solve(capacity int, weights, prices []int) (*Table, error) {
	if err := Validate(capacity, weights, prices); err != nil {
		return nil, err
	}
	t := NewTable(len(weights), capacity)
	for n := 0; n <= len(weights); n++ {
		for w := 0; w <= capacity; w++ {
			v, _ := Entry(t, weights, prices, n, w)
			if err := t.Set(n, w, v); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// Selection backtracks a complete table and returns the indexes of the
// chosen items in ascending order.
func (t *Table) Selection(weights []int) []int {
	if !t.Complete() || len(weights) != t.Items {
		return nil
	}
	chosen := make([]int, 0)
	w := t.Capacity
	for n := t.Items; n > 0; n-- {
		if t.cells[n][w] != t.cells[n-1][w] {
			chosen = append(chosen, n-1)
			w -= weights[n-1]
		}
	}
	for i, j := 0, len(chosen)-1; i < j; i, j = i+1, j-1 {
		chosen[i], chosen[j] = chosen[j], chosen[i]
	}
	return chosen
}

// MaxCells bounds the (items+1)*(capacity+1) entries of a table.
const MaxCells = 1 << 20

// Validate checks the construction contract of an animation.
func Validate(capacity int, weights, prices []int) error {
	if len(weights) != len(prices) {
		return &ValidationError{
			Field:  "prices",
			Reason: fmt.Sprintf("every item needs a weight and a price (got %d weights, %d prices)", len(weights), len(prices)),
		}
	}
	if capacity < 0 {
		return &ValidationError{Field: "capacity", Reason: fmt.Sprintf("must not be negative, got %d", capacity)}
	}
	if capacity >= MaxCells || len(weights) >= MaxCells || (len(weights)+1)*(capacity+1) > MaxCells {
		return &ValidationError{
			Field:  "capacity",
			Reason: fmt.Sprintf("%d items with capacity %d exceed the limit of %d table entries", len(weights), capacity, MaxCells),
		}
	}
	for i, w := range weights {
		if w <= 0 {
			return &ValidationError{Field: "weights", Reason: fmt.Sprintf("item %d must weigh at least 1, got %d", i, w)}
		}
	}
	for i, p := range prices {
		if p < 0 {
			return &ValidationError{Field: "prices", Reason: fmt.Sprintf("item %d has negative price %d", i, p)}
		}
	}
	return nil
}
