package remote

import (
	"errors"
	"fmt"
)

// ErrNotFound means the service answered, but has no such record. It is
// never retried.
var ErrNotFound = errors.New("record not found")

// TransientError wraps a failure that might succeed on retry: timeouts,
// broken connections, throttling and server errors.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err into TransientError.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// NotFound wraps ErrNotFound with details.
func NotFound(op, id string) error {
	return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
}

// IsNotFound checks if err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransient checks if err is worth a retry.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
