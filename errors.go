package stringpool

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle is returned when a handle does not belong to the
	// pool or its offset lies outside the arena's used range.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrInvalidKey is returned when a key contains a NUL byte. Stored
	// strings are NUL-terminated, so keys must be NUL-free.
	ErrInvalidKey = errors.New("invalid key")

	// ErrClosed is returned when a pool is used after Destroy.
	ErrClosed = errors.New("pool is closed")
)

// ErrAllocation indicates that the arena could not acquire memory for a new
// string.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrAllocation struct {
	Size  int
	cause error
}

func (e *ErrAllocation) Error() string {
	return fmt.Sprintf("allocation of %d bytes failed", e.Size)
}

func (e *ErrAllocation) Unwrap() error { return e.cause }
