package knapsack

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates capacity, weights or prices that cannot form a problem.
	ErrValidation = errors.New("knapsack: invalid input")

	// ErrInvariant indicates an attempt to overwrite or misaddress a table entry.
	ErrInvariant = errors.New("knapsack: table invariant violated")

	// ErrFinished indicates Advance was called on a finished animation.
	ErrFinished = errors.New("knapsack: animation already finished")
)

// ValidationError describes the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("knapsack: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvariantError carries the table address of a rejected write.
type InvariantError struct {
	N, W    int
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("knapsack: table[%d][%d]: %s", e.N, e.W, e.Message)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
