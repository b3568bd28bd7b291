package should

import (
	"time"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	DateFamily    = Assertion.Compose("Date")
	DateBeBefore  = check(DateFamily, "BeBefore")
	DateBeAfter   = check(DateFamily, "BeAfter")
	DateBeWithin  = check(DateFamily, "BeWithin")
	DateNotBeZero = check(DateFamily, "NotBeZero")
)

// TimeAssertions checks a time.Time. The zero time stands for a missing
// value; only NotBeZero treats it specially.
type TimeAssertions struct {
	*verify.Engine[time.Time]
}

// Time starts a collecting chain on subject.
func Time(subject time.Time, opts ...verify.Option) *TimeAssertions {
	return &TimeAssertions{collect(subject, opts)}
}

// MustTime starts a raising chain on subject.
func MustTime(subject time.Time, opts ...verify.Option) *TimeAssertions {
	return &TimeAssertions{raise(subject, opts)}
}

// And returns a.
func (a *TimeAssertions) And() *TimeAssertions {
	return a
}

func (a *TimeAssertions) actual(err *fault.Error) {
	err.With("actual", a.Subject().Format(time.RFC3339Nano))
}

// BeBefore fails unless the subject is strictly before ref.
func (a *TimeAssertions) BeBefore(ref time.Time, msgAndArgs ...any) *TimeAssertions {
	a.Assert(func(t time.Time) bool { return t.Before(ref) },
		DateBeBefore,
		fault.Because("expected time to be before {0}", ref.Format(time.RFC3339Nano)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedBefore", ref.Format(time.RFC3339Nano))
			a.actual(err)
		}))
	return a
}

// BeAfter fails unless the subject is strictly after ref.
func (a *TimeAssertions) BeAfter(ref time.Time, msgAndArgs ...any) *TimeAssertions {
	a.Assert(func(t time.Time) bool { return t.After(ref) },
		DateBeAfter,
		fault.Because("expected time to be after {0}", ref.Format(time.RFC3339Nano)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedAfter", ref.Format(time.RFC3339Nano))
			a.actual(err)
		}))
	return a
}

// BeWithin checks that the subject is no further than tolerance from ref,
// in either direction.
func (a *TimeAssertions) BeWithin(tolerance time.Duration, ref time.Time, msgAndArgs ...any) *TimeAssertions {
	a.Assert(func(t time.Time) bool { return absDuration(t.Sub(ref)) <= tolerance },
		DateBeWithin,
		fault.Because("expected time to be within {0} of {1}", tolerance, ref.Format(time.RFC3339Nano)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("tolerance", tolerance.String())
			err.With("reference", ref.Format(time.RFC3339Nano))
			err.With("difference", a.Subject().Sub(ref).String())
			a.actual(err)
		}))
	return a
}

// NotBeZero fails for the zero time.
func (a *TimeAssertions) NotBeZero(msgAndArgs ...any) *TimeAssertions {
	a.Assert(func(t time.Time) bool { return !t.IsZero() },
		DateNotBeZero,
		"expected time to be set",
		describe(msgAndArgs, nil))
	return a
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
