package should

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	CollectionFamily               = Assertion.Compose("Collection")
	CollectionBeEmpty              = check(CollectionFamily, "BeEmpty")
	CollectionNotBeEmpty           = check(CollectionFamily, "NotBeEmpty")
	CollectionHaveCount            = check(CollectionFamily, "HaveCount")
	CollectionHaveCountGreaterThan = check(CollectionFamily, "HaveCountGreaterThan")
	CollectionContain              = check(CollectionFamily, "Contain")
	CollectionNotContain           = check(CollectionFamily, "NotContain")
	CollectionOnlyHaveUniqueItems  = check(CollectionFamily, "OnlyHaveUniqueItems")
	CollectionAllSatisfy           = check(CollectionFamily, "AllSatisfy")
)

// SliceAssertions checks a slice.
type SliceAssertions[E comparable] struct {
	*verify.Engine[[]E]
}

// Slice starts a collecting chain on subject.
func Slice[E comparable](subject []E, opts ...verify.Option) *SliceAssertions[E] {
	return &SliceAssertions[E]{collect(subject, opts)}
}

// MustSlice starts a raising chain on subject.
func MustSlice[E comparable](subject []E, opts ...verify.Option) *SliceAssertions[E] {
	return &SliceAssertions[E]{raise(subject, opts)}
}

// And returns a.
func (a *SliceAssertions[E]) And() *SliceAssertions[E] {
	return a
}

func (a *SliceAssertions[E]) actualCount(err *fault.Error) {
	err.With("actualCount", strconv.Itoa(len(a.Subject())))
}

// BeEmpty fails unless the slice has no items.
func (a *SliceAssertions[E]) BeEmpty(msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return len(s) == 0 },
		CollectionBeEmpty,
		"expected collection to be empty",
		describe(msgAndArgs, a.actualCount))
	return a
}

// NotBeEmpty fails for a nil or empty slice.
func (a *SliceAssertions[E]) NotBeEmpty(msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return len(s) > 0 },
		CollectionNotBeEmpty,
		"expected collection not to be empty",
		describe(msgAndArgs, nil))
	return a
}

// HaveCount fails unless the slice holds exactly expected items.
func (a *SliceAssertions[E]) HaveCount(expected int, msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return len(s) == expected },
		CollectionHaveCount,
		fault.Because("expected collection to contain {0} item(s)", expected),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedCount", strconv.Itoa(expected))
			a.actualCount(err)
		}))
	return a
}

// HaveCountGreaterThan fails unless the slice holds more than bound items.
func (a *SliceAssertions[E]) HaveCountGreaterThan(bound int, msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return len(s) > bound },
		CollectionHaveCountGreaterThan,
		fault.Because("expected collection to contain more than {0} item(s)", bound),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("bound", strconv.Itoa(bound))
			a.actualCount(err)
		}))
	return a
}

// Contain fails unless item is in the slice.
func (a *SliceAssertions[E]) Contain(item E, msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return slices.Contains(s, item) },
		CollectionContain,
		fault.Because("expected collection to contain {0}", item),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedItem", fmt.Sprint(item))
		}))
	return a
}

// NotContain fails if item is in the slice.
func (a *SliceAssertions[E]) NotContain(item E, msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return !slices.Contains(s, item) },
		CollectionNotContain,
		fault.Because("expected collection not to contain {0}", item),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("unexpectedItem", fmt.Sprint(item))
			err.With("index", strconv.Itoa(slices.Index(a.Subject(), item)))
		}))
	return a
}

// OnlyHaveUniqueItems fails if any item appears twice.
func (a *SliceAssertions[E]) OnlyHaveUniqueItems(msgAndArgs ...any) *SliceAssertions[E] {
	a.Assert(func(s []E) bool { return firstDuplicate(s) < 0 },
		CollectionOnlyHaveUniqueItems,
		"expected collection to only have unique items",
		describe(msgAndArgs, func(err *fault.Error) {
			s := a.Subject()
			i := firstDuplicate(s)
			err.With("duplicateItem", fmt.Sprint(s[i]))
			err.With("index", strconv.Itoa(i))
		}))
	return a
}

// AllSatisfy checks every item against pred. name describes pred in the
// failure message.
func (a *SliceAssertions[E]) AllSatisfy(name string, pred func(E) bool, msgAndArgs ...any) *SliceAssertions[E] {
	if pred == nil {
		panic("should: AllSatisfy called with a nil predicate")
	}
	a.Assert(func(s []E) bool { return !slices.ContainsFunc(s, not(pred)) },
		CollectionAllSatisfy,
		fault.Because("expected all items to satisfy {0}", name),
		describe(msgAndArgs, func(err *fault.Error) {
			s := a.Subject()
			i := slices.IndexFunc(s, not(pred))
			err.With("predicate", name)
			err.With("failingItem", fmt.Sprint(s[i]))
			err.With("index", strconv.Itoa(i))
		}))
	return a
}

// firstDuplicate returns the index of the first item equal to an earlier
// one, or -1. Interface items holding uncomparable values panic, as == does.
func firstDuplicate[E comparable](s []E) int {
	for i := 1; i < len(s); i++ {
		if slices.Contains(s[:i], s[i]) {
			return i
		}
	}
	return -1
}

func not[E any](pred func(E) bool) func(E) bool {
	return func(v E) bool { return !pred(v) }
}
