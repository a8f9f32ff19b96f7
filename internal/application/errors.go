package application

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when a session-scoped operation is
// attempted without a resolvable user identity. No store round trip is
// made in that case.
var ErrUnauthenticated = errors.New("no authenticated user")

// WriteError wraps a failed insert. The row must not be assumed to
// exist when one is returned.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError wraps a failed list or count. Callers must treat it as "no
// data", distinct from an empty result.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
