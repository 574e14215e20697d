package store

import (
	"errors"
	"fmt"
)

// PersistenceError reports a failed store write together with how much of the
// batch made it, so callers never lose a count.
type PersistenceError struct {
	Op        string
	Attempted int
	Succeeded int
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Attempted == 0 {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s: %d/%d succeeded: %v", e.Op, e.Succeeded, e.Attempted, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
