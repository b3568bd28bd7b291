package should

import (
	"cmp"
	"fmt"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	NumericFamily        = Assertion.Compose("Numeric")
	NumericBe            = check(NumericFamily, "Be")
	NumericBeGreaterThan = check(NumericFamily, "BeGreaterThan")
	NumericBeLessThan    = check(NumericFamily, "BeLessThan")
	NumericBeInRange     = check(NumericFamily, "BeInRange")
	NumericBePositive    = check(NumericFamily, "BePositive")
)

// NumberAssertions checks an ordered value.
type NumberAssertions[N cmp.Ordered] struct {
	*verify.Engine[N]
}

// Number starts a collecting chain on subject.
func Number[N cmp.Ordered](subject N, opts ...verify.Option) *NumberAssertions[N] {
	return &NumberAssertions[N]{collect(subject, opts)}
}

// MustNumber starts a raising chain on subject.
func MustNumber[N cmp.Ordered](subject N, opts ...verify.Option) *NumberAssertions[N] {
	return &NumberAssertions[N]{raise(subject, opts)}
}

// And returns a.
func (a *NumberAssertions[N]) And() *NumberAssertions[N] {
	return a
}

func (a *NumberAssertions[N]) actual(err *fault.Error) {
	err.With("actual", fmt.Sprint(a.Subject()))
}

// Be fails unless the subject equals expected.
func (a *NumberAssertions[N]) Be(expected N, msgAndArgs ...any) *NumberAssertions[N] {
	a.Assert(func(n N) bool { return n == expected },
		NumericBe,
		fault.Because("expected value to be {0}", expected),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expected", fmt.Sprint(expected))
			a.actual(err)
		}))
	return a
}

// BeGreaterThan fails unless the subject is greater than bound.
func (a *NumberAssertions[N]) BeGreaterThan(bound N, msgAndArgs ...any) *NumberAssertions[N] {
	a.Assert(func(n N) bool { return n > bound },
		NumericBeGreaterThan,
		fault.Because("expected value to be greater than {0}", bound),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("bound", fmt.Sprint(bound))
			a.actual(err)
		}))
	return a
}

// BeLessThan fails unless the subject is less than bound.
func (a *NumberAssertions[N]) BeLessThan(bound N, msgAndArgs ...any) *NumberAssertions[N] {
	a.Assert(func(n N) bool { return n < bound },
		NumericBeLessThan,
		fault.Because("expected value to be less than {0}", bound),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("bound", fmt.Sprint(bound))
			a.actual(err)
		}))
	return a
}

// BeInRange checks low <= value <= high.
func (a *NumberAssertions[N]) BeInRange(low, high N, msgAndArgs ...any) *NumberAssertions[N] {
	a.Assert(func(n N) bool { return n >= low && n <= high },
		NumericBeInRange,
		fault.Because("expected value to be between {0} and {1}", low, high),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("low", fmt.Sprint(low))
			err.With("high", fmt.Sprint(high))
			a.actual(err)
		}))
	return a
}

// BePositive fails unless the subject is greater than zero.
func (a *NumberAssertions[N]) BePositive(msgAndArgs ...any) *NumberAssertions[N] {
	a.Assert(func(n N) bool { var zero N; return n > zero },
		NumericBePositive,
		"expected value to be positive",
		describe(msgAndArgs, a.actual))
	return a
}
