package seq

import (
	"errors"
	"fmt"
)

// Domain errors for sequence operations.
var (
	// ErrOutOfBounds indicates an index outside the live range of the vector.
	ErrOutOfBounds = errors.New("seq: index out of bounds")

	// ErrAllocation indicates storage for the requested capacity could not be obtained.
	ErrAllocation = errors.New("seq: allocation failed")
)

// IndexError wraps ErrOutOfBounds with the offending operation.
type IndexError struct {
	Op    string
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("seq: %s: index %d out of bounds (size %d)", e.Op, e.Index, e.Size)
}

func (e *IndexError) Unwrap() error {
	return ErrOutOfBounds
}

// AllocError reports a failed growth. Err is ErrAllocation or, when an
// element transfer failed, the transfer error.
type AllocError struct {
	Requested int
	Limit     int
	Err       error
}

func (e *AllocError) Error() string {
	if e.Limit > 0 {
		return fmt.Sprintf("seq: cannot grow to %d slots (limit %d): %v", e.Requested, e.Limit, e.Err)
	}
	return fmt.Sprintf("seq: cannot grow to %d slots: %v", e.Requested, e.Err)
}

func (e *AllocError) Unwrap() []error {
	if errors.Is(e.Err, ErrAllocation) {
		return []error{e.Err}
	}
	return []error{ErrAllocation, e.Err}
}

func indexErr(op string, index, size int) error {
	return &IndexError{Op: op, Index: index, Size: size}
}
