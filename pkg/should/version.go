package should

import (
	"github.com/Masterminds/semver/v3"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	VersionFamily            = Assertion.Compose("Version")
	VersionSatisfyConstraint = check(VersionFamily, "SatisfyConstraint")
	VersionBeGreaterThan     = check(VersionFamily, "BeGreaterThan")
	VersionNotBePrerelease   = check(VersionFamily, "NotBePrerelease")
)

// VersionAssertions checks a semantic version. A nil version is missing
// and fails every check.
type VersionAssertions struct {
	*verify.Engine[*semver.Version]
}

// Version starts a collecting chain on subject.
func Version(subject *semver.Version, opts ...verify.Option) *VersionAssertions {
	return &VersionAssertions{collect(subject, opts)}
}

// MustVersion starts a raising chain on subject.
func MustVersion(subject *semver.Version, opts ...verify.Option) *VersionAssertions {
	return &VersionAssertions{raise(subject, opts)}
}

// And returns a.
func (a *VersionAssertions) And() *VersionAssertions {
	return a
}

func (a *VersionAssertions) actual(err *fault.Error) {
	if v := a.Subject(); v != nil {
		err.With("actual", v.String())
		return
	}
	err.With("actual", "<nil>")
}

// SatisfyConstraint checks the version against a constraint such as
// ">= 1.2, < 2". An unparsable constraint fails the check.
func (a *VersionAssertions) SatisfyConstraint(constraint string, msgAndArgs ...any) *VersionAssertions {
	c, parseErr := semver.NewConstraint(constraint)
	a.Assert(func(v *semver.Version) bool { return v != nil && parseErr == nil && c.Check(v) },
		VersionSatisfyConstraint,
		fault.Because("expected version to satisfy {0}", constraint),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("constraint", constraint)
			if parseErr != nil {
				err.With("error", parseErr.Error())
			}
			a.actual(err)
		}))
	return a
}

// BeGreaterThan compares against another version string.
func (a *VersionAssertions) BeGreaterThan(other string, msgAndArgs ...any) *VersionAssertions {
	bound, parseErr := semver.NewVersion(other)
	a.Assert(func(v *semver.Version) bool { return v != nil && parseErr == nil && v.GreaterThan(bound) },
		VersionBeGreaterThan,
		fault.Because("expected version to be greater than {0}", other),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("bound", other)
			if parseErr != nil {
				err.With("error", parseErr.Error())
			}
			a.actual(err)
		}))
	return a
}

// NotBePrerelease fails for a version with a prerelease tag.
func (a *VersionAssertions) NotBePrerelease(msgAndArgs ...any) *VersionAssertions {
	a.Assert(func(v *semver.Version) bool { return v != nil && v.Prerelease() == "" },
		VersionNotBePrerelease,
		"expected a release version",
		describe(msgAndArgs, a.actual))
	return a
}
