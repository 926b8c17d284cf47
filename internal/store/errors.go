package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a row is absent or not owned by the caller.
// Absent and not-owned rows look the same to callers.
var ErrNotFound = errors.New("not found")

// PersistenceError wraps a storage failure with the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
