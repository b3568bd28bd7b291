package should

import (
	"strconv"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	BooleanFamily  = Assertion.Compose("Boolean")
	BooleanBeTrue  = check(BooleanFamily, "BeTrue")
	BooleanBeFalse = check(BooleanFamily, "BeFalse")
)

// BoolAssertions checks a bool.
type BoolAssertions struct {
	*verify.Engine[bool]
}

// Bool starts a collecting chain on subject.
func Bool(subject bool, opts ...verify.Option) *BoolAssertions {
	return &BoolAssertions{collect(subject, opts)}
}

// MustBool starts a raising chain on subject.
func MustBool(subject bool, opts ...verify.Option) *BoolAssertions {
	return &BoolAssertions{raise(subject, opts)}
}

// And returns a.
func (a *BoolAssertions) And() *BoolAssertions {
	return a
}

// BeTrue fails unless the subject is true.
func (a *BoolAssertions) BeTrue(msgAndArgs ...any) *BoolAssertions {
	a.Assert(func(b bool) bool { return b },
		BooleanBeTrue,
		"expected value to be true",
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("actual", strconv.FormatBool(a.Subject()))
		}))
	return a
}

// BeFalse fails unless the subject is false.
func (a *BoolAssertions) BeFalse(msgAndArgs ...any) *BoolAssertions {
	a.Assert(func(b bool) bool { return !b },
		BooleanBeFalse,
		"expected value to be false",
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("actual", strconv.FormatBool(a.Subject()))
		}))
	return a
}
