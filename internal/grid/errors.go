package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid operations.
var (
	// ErrIndex indicates a (row, column) address outside the grid.
	ErrIndex = errors.New("grid: index out of range")

	// ErrPrecondition indicates an operation on a detached or uninitialised grid.
	ErrPrecondition = errors.New("grid: precondition failed")

	// ErrNotFound indicates a read of a cell whose text was never written.
	ErrNotFound = errors.New("grid: cell text not found")
)

// IndexError carries the rejected address and the valid ranges.
type IndexError struct {
	Row, Column   int
	Rows, Columns int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("grid: index (%d, %d) out of range [0,%d) x [0,%d)", e.Row, e.Column, e.Rows, e.Columns)
}

func (e *IndexError) Unwrap() error {
	return ErrIndex
}

// PreconditionError names the operation and the state that forbade it.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("grid: %s: %s", e.Op, e.Reason)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

// NotFoundError identifies the cell that has no text.
type NotFoundError struct {
	Row, Column int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("grid: no text at (%d, %d)", e.Row, e.Column)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
