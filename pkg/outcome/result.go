// Package outcome carries the result of a verification chain: either the
// verified subject or the *fault.Error of the first failing check.
//
// Outcomes are plain data. Callers branch on IsSuccess or IsFailure before
// reading Value or Err; reading the wrong side is a programming error and
// panics.
package outcome

import (
	"fmt"

	"github.com/cgast/should/pkg/fault"
)

// Result is a success carrying a value of type T or a failure carrying a
// *fault.Error. The zero Result is a success holding the zero T.
type Result[T any] struct {
	value T
	err   *fault.Error
}

// Success returns a successful Result holding value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure returns a failed Result. A nil err panics.
func Failure[T any](err *fault.Error) Result[T] {
	if err == nil {
		panic("outcome: Failure called with a nil error")
	}
	return Result[T]{err: err}
}

// IsSuccess reports whether r holds a value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// IsFailure reports whether r holds an error.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}

// Value returns the value of a successful Result and panics on a failure.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic(fmt.Sprintf("outcome: Value called on a failed result (%s)", r.err.Code()))
	}
	return r.value
}

// Err returns the error of a failed Result and panics on a success.
func (r Result[T]) Err() *fault.Error {
	if r.err == nil {
		panic("outcome: Err called on a successful result")
	}
	return r.err
}

// Get returns the value and a nil error on success, or the zero T and the
// failure.
func (r Result[T]) Get() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// String renders r for diagnostics.
func (r Result[T]) String() string {
	if r.err != nil {
		return "Failure(" + r.err.Error() + ")"
	}
	return fmt.Sprintf("Success(%v)", r.value)
}
