// Package should provides fluent check catalogs built on package verify.
//
// Every subject type has two entry points: X(subject) collects the first
// failure and ends with Result or VoidResult, MustX(subject) raises it
// immediately.
//
//	r := should.Slice([]int{1, 2, 3}).NotBeEmpty().And().HaveCount(5).Result()
//	if r.IsFailure() {
//		fmt.Println(r.Err().Code()) // Assertion/Collection/HaveCount
//	}
//
//	should.MustString(name, verify.WithRaiser(verify.FailTest(t))).NotBeEmpty()
//
// Check methods accept an optional reason as a trailing msgAndArgs list:
// a fault.Because template followed by its arguments. The rendered reason
// is stored under the "reason" metadata key.
package should

import (
	"slices"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

// Assertion is the root of every identity in this package.
var Assertion = fault.Root("Assertion")

var registry []fault.Code

// check composes and registers the identity of one check.
func check(family fault.Code, name string) fault.Code {
	c := family.Compose(name)
	registry = append(registry, c)
	return c
}

// Codes returns every check identity declared by the catalogs, sorted.
func Codes() []fault.Code {
	out := slices.Clone(registry)
	slices.SortFunc(out, fault.Compare)
	return out
}

// describe returns a metadata builder that runs fill and then records the
// reason, if any. It runs only when the check has failed.
func describe(msgAndArgs []any, fill func(*fault.Error)) func(*fault.Error) *fault.Error {
	return func(err *fault.Error) *fault.Error {
		if fill != nil {
			fill(err)
		}
		if reason := fault.Reason(msgAndArgs...); reason != "" {
			err.With("reason", reason)
		}
		return err
	}
}

func collect[T any](subject T, opts []verify.Option) *verify.Engine[T] {
	return verify.New(subject, verify.Collect, opts...)
}

func raise[T any](subject T, opts []verify.Option) *verify.Engine[T] {
	return verify.New(subject, verify.Raise, opts...)
}
