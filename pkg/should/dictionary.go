package should

import (
	"fmt"
	"strconv"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	DictionaryFamily        = Assertion.Compose("Dictionary")
	DictionaryBeEmpty       = check(DictionaryFamily, "BeEmpty")
	DictionaryHaveCount     = check(DictionaryFamily, "HaveCount")
	DictionaryContainKey    = check(DictionaryFamily, "ContainKey")
	DictionaryNotContainKey = check(DictionaryFamily, "NotContainKey")
)

// MapAssertions checks a map.
type MapAssertions[K comparable, V any] struct {
	*verify.Engine[map[K]V]
}

// Map starts a collecting chain on subject.
func Map[K comparable, V any](subject map[K]V, opts ...verify.Option) *MapAssertions[K, V] {
	return &MapAssertions[K, V]{collect(subject, opts)}
}

// MustMap starts a raising chain on subject.
func MustMap[K comparable, V any](subject map[K]V, opts ...verify.Option) *MapAssertions[K, V] {
	return &MapAssertions[K, V]{raise(subject, opts)}
}

// And returns a.
func (a *MapAssertions[K, V]) And() *MapAssertions[K, V] {
	return a
}

// BeEmpty fails unless the map has no entries.
func (a *MapAssertions[K, V]) BeEmpty(msgAndArgs ...any) *MapAssertions[K, V] {
	a.Assert(func(m map[K]V) bool { return len(m) == 0 },
		DictionaryBeEmpty,
		"expected dictionary to be empty",
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("actualCount", strconv.Itoa(len(a.Subject())))
		}))
	return a
}

// HaveCount fails unless the map holds exactly expected entries.
func (a *MapAssertions[K, V]) HaveCount(expected int, msgAndArgs ...any) *MapAssertions[K, V] {
	a.Assert(func(m map[K]V) bool { return len(m) == expected },
		DictionaryHaveCount,
		fault.Because("expected dictionary to contain {0} entries", expected),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedCount", strconv.Itoa(expected))
			err.With("actualCount", strconv.Itoa(len(a.Subject())))
		}))
	return a
}

// ContainKey fails unless key is present.
func (a *MapAssertions[K, V]) ContainKey(key K, msgAndArgs ...any) *MapAssertions[K, V] {
	a.Assert(func(m map[K]V) bool { _, ok := m[key]; return ok },
		DictionaryContainKey,
		fault.Because("expected dictionary to contain key {0}", key),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedKey", fmt.Sprint(key))
		}))
	return a
}

// NotContainKey fails if key is present.
func (a *MapAssertions[K, V]) NotContainKey(key K, msgAndArgs ...any) *MapAssertions[K, V] {
	a.Assert(func(m map[K]V) bool { _, ok := m[key]; return !ok },
		DictionaryNotContainKey,
		fault.Because("expected dictionary not to contain key {0}", key),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("unexpectedKey", fmt.Sprint(key))
			err.With("actualValue", fmt.Sprint(a.Subject()[key]))
		}))
	return a
}
