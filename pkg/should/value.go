package should

import (
	"fmt"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

// ValueFamily holds the identities of custom checks made with Satisfy.
var ValueFamily = Assertion.Compose("Value")

// ValueAssertions runs caller-defined checks on any subject.
type ValueAssertions[T any] struct {
	*verify.Engine[T]
}

// That starts a collecting chain on subject.
func That[T any](subject T, opts ...verify.Option) *ValueAssertions[T] {
	return &ValueAssertions[T]{collect(subject, opts)}
}

// MustThat starts a raising chain on subject.
func MustThat[T any](subject T, opts ...verify.Option) *ValueAssertions[T] {
	return &ValueAssertions[T]{raise(subject, opts)}
}

// And returns a.
func (a *ValueAssertions[T]) And() *ValueAssertions[T] {
	return a
}

// Satisfy runs pred as a check named name; its identity is
// Assertion/Value/<name>.
func (a *ValueAssertions[T]) Satisfy(name string, pred func(T) bool, msgAndArgs ...any) *ValueAssertions[T] {
	a.Assert(pred,
		ValueFamily.Compose(name),
		fault.Because("expected value to satisfy {0}", name),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("actual", fmt.Sprintf("%v", a.Subject()))
		}))
	return a
}
