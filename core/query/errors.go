package query

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange reports a caller-supplied value outside its valid range,
	// such as a negative offset, limit, column position or record index.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownColumn reports a well-formed column that cannot be matched
	// against the header in use.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrOutOfBounds reports a zero-width window requested past the data
	// available after filtering and sorting.
	ErrOutOfBounds = errors.New("window out of bounds")
)

// QueryError records the operation that failed. It unwraps to one of the
// sentinel errors above or to an error returned by the record source.
type QueryError struct {
	Op  string
	Err error
}

// Error returns the error message for a QueryError.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func newError(op string, kind error, format string, args ...any) error {
	return &QueryError{Op: op, Err: fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))}
}
