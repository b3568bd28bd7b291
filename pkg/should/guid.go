package should

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	GUIDFamily      = Assertion.Compose("GUID")
	GUIDBeEmpty     = check(GUIDFamily, "BeEmpty")
	GUIDNotBeEmpty  = check(GUIDFamily, "NotBeEmpty")
	GUIDHaveVersion = check(GUIDFamily, "HaveVersion")
)

// GUIDAssertions checks a UUID. uuid.Nil is the empty GUID.
type GUIDAssertions struct {
	*verify.Engine[uuid.UUID]
}

// GUID starts a collecting chain on subject.
func GUID(subject uuid.UUID, opts ...verify.Option) *GUIDAssertions {
	return &GUIDAssertions{collect(subject, opts)}
}

// MustGUID starts a raising chain on subject.
func MustGUID(subject uuid.UUID, opts ...verify.Option) *GUIDAssertions {
	return &GUIDAssertions{raise(subject, opts)}
}

// And returns a.
func (a *GUIDAssertions) And() *GUIDAssertions {
	return a
}

func (a *GUIDAssertions) actual(err *fault.Error) {
	err.With("actual", a.Subject().String())
}

// BeEmpty fails unless the subject is the nil UUID.
func (a *GUIDAssertions) BeEmpty(msgAndArgs ...any) *GUIDAssertions {
	a.Assert(func(u uuid.UUID) bool { return u == uuid.Nil },
		GUIDBeEmpty,
		"expected GUID to be empty",
		describe(msgAndArgs, a.actual))
	return a
}

// NotBeEmpty fails for the nil UUID.
func (a *GUIDAssertions) NotBeEmpty(msgAndArgs ...any) *GUIDAssertions {
	a.Assert(func(u uuid.UUID) bool { return u != uuid.Nil },
		GUIDNotBeEmpty,
		"expected GUID not to be empty",
		describe(msgAndArgs, nil))
	return a
}

// HaveVersion checks the RFC 4122 version number, e.g. 4 or 7.
func (a *GUIDAssertions) HaveVersion(version int, msgAndArgs ...any) *GUIDAssertions {
	a.Assert(func(u uuid.UUID) bool { return int(u.Version()) == version },
		GUIDHaveVersion,
		fault.Because("expected GUID version {0}", version),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedVersion", strconv.Itoa(version))
			err.With("actualVersion", strconv.Itoa(int(a.Subject().Version())))
			a.actual(err)
		}))
	return a
}
