package should

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/verify"
)

var (
	TextFamily     = Assertion.Compose("Text")
	TextBeEmpty    = check(TextFamily, "BeEmpty")
	TextNotBeEmpty = check(TextFamily, "NotBeEmpty")
	TextContain    = check(TextFamily, "Contain")
	TextStartWith  = check(TextFamily, "StartWith")
	TextEndWith    = check(TextFamily, "EndWith")
	TextHaveLength = check(TextFamily, "HaveLength")
	TextMatchRegex = check(TextFamily, "MatchRegex")
	TextMatchGlob  = check(TextFamily, "MatchGlob")
)

// TextAssertions checks a string.
type TextAssertions struct {
	*verify.Engine[string]
}

// String starts a collecting chain on subject.
func String(subject string, opts ...verify.Option) *TextAssertions {
	return &TextAssertions{collect(subject, opts)}
}

// MustString starts a raising chain on subject.
func MustString(subject string, opts ...verify.Option) *TextAssertions {
	return &TextAssertions{raise(subject, opts)}
}

// And returns a.
func (a *TextAssertions) And() *TextAssertions {
	return a
}

func (a *TextAssertions) actual(err *fault.Error) {
	err.With("actual", strconv.Quote(truncate(a.Subject(), 200)))
}

// BeEmpty fails unless the text is "".
func (a *TextAssertions) BeEmpty(msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return s == "" },
		TextBeEmpty,
		"expected text to be empty",
		describe(msgAndArgs, a.actual))
	return a
}

// NotBeEmpty fails for the empty string and for whitespace-only text.
func (a *TextAssertions) NotBeEmpty(msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return strings.TrimSpace(s) != "" },
		TextNotBeEmpty,
		"expected text not to be empty",
		describe(msgAndArgs, a.actual))
	return a
}

// Contain fails unless substr occurs in the text.
func (a *TextAssertions) Contain(substr string, msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return strings.Contains(s, substr) },
		TextContain,
		fault.Because("expected text to contain {0}", strconv.Quote(substr)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expected", substr)
			a.actual(err)
		}))
	return a
}

// StartWith fails unless the text begins with prefix.
func (a *TextAssertions) StartWith(prefix string, msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return strings.HasPrefix(s, prefix) },
		TextStartWith,
		fault.Because("expected text to start with {0}", strconv.Quote(prefix)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedPrefix", prefix)
			a.actual(err)
		}))
	return a
}

// EndWith fails unless the text ends with suffix.
func (a *TextAssertions) EndWith(suffix string, msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return strings.HasSuffix(s, suffix) },
		TextEndWith,
		fault.Because("expected text to end with {0}", strconv.Quote(suffix)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedSuffix", suffix)
			a.actual(err)
		}))
	return a
}

// HaveLength counts runes, not bytes.
func (a *TextAssertions) HaveLength(expected int, msgAndArgs ...any) *TextAssertions {
	a.Assert(func(s string) bool { return utf8.RuneCountInString(s) == expected },
		TextHaveLength,
		fault.Because("expected text to have length {0}", expected),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("expectedLength", strconv.Itoa(expected))
			err.With("actualLength", strconv.Itoa(utf8.RuneCountInString(a.Subject())))
		}))
	return a
}

// MatchRegex checks the text against a regular expression. An invalid
// pattern fails the check and is reported under "error".
func (a *TextAssertions) MatchRegex(pattern string, msgAndArgs ...any) *TextAssertions {
	re, compileErr := regexp.Compile(pattern)
	a.Assert(func(s string) bool { return compileErr == nil && re.MatchString(s) },
		TextMatchRegex,
		fault.Because("expected text to match regex {0}", strconv.Quote(pattern)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("pattern", pattern)
			if compileErr != nil {
				err.With("error", compileErr.Error())
			}
			a.actual(err)
		}))
	return a
}

// MatchGlob checks the text against a doublestar glob such as
// "cmd/**/*.go". An invalid pattern fails the check.
func (a *TextAssertions) MatchGlob(pattern string, msgAndArgs ...any) *TextAssertions {
	valid := doublestar.ValidatePattern(pattern)
	a.Assert(func(s string) bool {
		if !valid {
			return false
		}
		ok, err := doublestar.Match(pattern, s)
		return err == nil && ok
	},
		TextMatchGlob,
		fault.Because("expected text to match glob {0}", strconv.Quote(pattern)),
		describe(msgAndArgs, func(err *fault.Error) {
			err.With("pattern", pattern)
			if !valid {
				err.With("error", doublestar.ErrBadPattern.Error())
			}
			a.actual(err)
		}))
	return a
}

// truncate limits a string to at most maxLen bytes without splitting a
// rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
