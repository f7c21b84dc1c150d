package promisify

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrGoexit is used to reject a promise when the adapted function's
	// goroutine exits via runtime.Goexit without settling.
	ErrGoexit = errors.New("promisify: goroutine exited via runtime.Goexit")

	// ErrRejectedNilError is substituted when a promise is rejected with
	// a nil error, so a rejected promise always carries a non-nil Err.
	ErrRejectedNilError = errors.New("promisify: promise rejected with nil error")

	// ErrNilFunction is the panic value used when a nil function is
	// passed to an adapter.
	ErrNilFunction = errors.New("promisify: nil function")

	// ErrNilSource is the panic value used when a nil channel, iterator,
	// or reader is passed to a collector.
	ErrNilSource = errors.New("promisify: nil source")
)

// PanicError wraps a panic value recovered from an adapted function.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e PanicError) Error() string {
	return fmt.Sprintf("promisify: recovered panic: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value is an error
// type, enabling use with [errors.Is] and [errors.As] through the
// cause chain. If the panic Value is not an error (e.g. a string),
// returns nil.
func (e PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TimeoutError is the rejection reason produced when a [WithTimeout]
// deadline elapses before the adapted operation settles its promise.
type TimeoutError struct {
	Cause   error
	Message string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "promisify: operation timed out"
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with [errors.Is] and
// [errors.As].
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}
