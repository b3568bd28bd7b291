package plan

import (
	"fmt"
	"maps"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/cgast/should/pkg/outcome"
	"github.com/cgast/should/pkg/should"
	"github.com/cgast/should/pkg/verify"
)

// chain is one running catalog chain, whatever its subject type.
type chain interface {
	apply(c CheckSpec) error
	void() outcome.Void
}

type voider interface {
	VoidResult() outcome.Void
}

// binding maps a check name in a plan to a catalog method. prepare reads
// the arguments and returns the call; it is only made when every argument
// was read without error.
type binding[A any] struct {
	args    []string
	prepare func(in *args) func(a A, reason []any)
}

type boundChain[A voider] struct {
	a     A
	table map[string]binding[A]
}

func (c boundChain[A]) apply(spec CheckSpec) error {
	b, ok := c.table[spec.Check]
	if !ok {
		return fmt.Errorf("check %q is not defined for this subject kind", spec.Check)
	}
	in := &args{check: spec.Check, values: spec.Args}
	run := b.prepare(in)
	if in.err != nil {
		return in.err
	}
	run(c.a, spec.reason())
	return nil
}

func (c boundChain[A]) void() outcome.Void {
	return c.a.VoidResult()
}

// kind describes one subject kind: which checks it accepts and how to
// start a chain on a decoded subject.
type kind struct {
	checks map[string][]string
	start  func(subject any, mode verify.Mode, opts []verify.Option) (chain, error)
}

func define[S any, A voider](
	convert func(any) (S, error),
	collect, raise func(S, ...verify.Option) A,
	table map[string]binding[A],
) kind {
	checks := make(map[string][]string, len(table))
	for name, b := range table {
		checks[name] = b.args
	}
	return kind{
		checks: checks,
		start: func(subject any, mode verify.Mode, opts []verify.Option) (chain, error) {
			s, err := convert(subject)
			if err != nil {
				return nil, err
			}
			entry := collect
			if mode == verify.Raise {
				entry = raise
			}
			return boundChain[A]{a: entry(s, opts...), table: table}, nil
		},
	}
}

func noArgs[A any](m func(A, ...any) A) binding[A] {
	return binding[A]{prepare: func(*args) func(A, []any) {
		return func(a A, reason []any) { m(a, reason...) }
	}}
}

func withString[A any](name string, m func(A, string, ...any) A) binding[A] {
	return binding[A]{args: []string{name}, prepare: func(in *args) func(A, []any) {
		v := in.str(name)
		return func(a A, reason []any) { m(a, v, reason...) }
	}}
}

func withInt[A any](name string, m func(A, int, ...any) A) binding[A] {
	return binding[A]{args: []string{name}, prepare: func(in *args) func(A, []any) {
		v := in.integer(name)
		return func(a A, reason []any) { m(a, v, reason...) }
	}}
}

func withFloat[A any](name string, m func(A, float64, ...any) A) binding[A] {
	return binding[A]{args: []string{name}, prepare: func(in *args) func(A, []any) {
		v := in.number(name)
		return func(a A, reason []any) { m(a, v, reason...) }
	}}
}

type (
	sliceChain    = *should.SliceAssertions[string]
	mapChain      = *should.MapAssertions[string, string]
	numberChain   = *should.NumberAssertions[float64]
	textChain     = *should.TextAssertions
	boolChain     = *should.BoolAssertions
	timeChain     = *should.TimeAssertions
	guidChain     = *should.GUIDAssertions
	versionChain  = *should.VersionAssertions
	documentChain = *should.DocumentAssertions
)

var collectionChecks = map[string]binding[sliceChain]{
	"BeEmpty":              noArgs(sliceChain.BeEmpty),
	"NotBeEmpty":           noArgs(sliceChain.NotBeEmpty),
	"HaveCount":            withInt("count", sliceChain.HaveCount),
	"HaveCountGreaterThan": withInt("count", sliceChain.HaveCountGreaterThan),
	"OnlyHaveUniqueItems":  noArgs(sliceChain.OnlyHaveUniqueItems),
	"Contain": {args: []string{"item"}, prepare: func(in *args) func(sliceChain, []any) {
		item := in.canonical("item")
		return func(a sliceChain, reason []any) { a.Contain(item, reason...) }
	}},
	"NotContain": {args: []string{"item"}, prepare: func(in *args) func(sliceChain, []any) {
		item := in.canonical("item")
		return func(a sliceChain, reason []any) { a.NotContain(item, reason...) }
	}},
}

var dictionaryChecks = map[string]binding[mapChain]{
	"BeEmpty":       noArgs(mapChain.BeEmpty),
	"HaveCount":     withInt("count", mapChain.HaveCount),
	"ContainKey":    withString("key", mapChain.ContainKey),
	"NotContainKey": withString("key", mapChain.NotContainKey),
}

var textChecks = map[string]binding[textChain]{
	"BeEmpty":    noArgs(textChain.BeEmpty),
	"NotBeEmpty": noArgs(textChain.NotBeEmpty),
	"Contain":    withString("value", textChain.Contain),
	"StartWith":  withString("prefix", textChain.StartWith),
	"EndWith":    withString("suffix", textChain.EndWith),
	"HaveLength": withInt("length", textChain.HaveLength),
	"MatchRegex": withString("pattern", textChain.MatchRegex),
	"MatchGlob":  withString("pattern", textChain.MatchGlob),
}

var numberChecks = map[string]binding[numberChain]{
	"Be":            withFloat("value", numberChain.Be),
	"BeGreaterThan": withFloat("value", numberChain.BeGreaterThan),
	"BeLessThan":    withFloat("value", numberChain.BeLessThan),
	"BePositive":    noArgs(numberChain.BePositive),
	"BeInRange": {args: []string{"low", "high"}, prepare: func(in *args) func(numberChain, []any) {
		low, high := in.number("low"), in.number("high")
		return func(a numberChain, reason []any) { a.BeInRange(low, high, reason...) }
	}},
}

var boolChecks = map[string]binding[boolChain]{
	"BeTrue":  noArgs(boolChain.BeTrue),
	"BeFalse": noArgs(boolChain.BeFalse),
}

var dateChecks = map[string]binding[timeChain]{
	"NotBeZero": noArgs(timeChain.NotBeZero),
	"BeBefore": {args: []string{"time"}, prepare: func(in *args) func(timeChain, []any) {
		ref := in.timestamp("time")
		return func(a timeChain, reason []any) { a.BeBefore(ref, reason...) }
	}},
	"BeAfter": {args: []string{"time"}, prepare: func(in *args) func(timeChain, []any) {
		ref := in.timestamp("time")
		return func(a timeChain, reason []any) { a.BeAfter(ref, reason...) }
	}},
	"BeWithin": {args: []string{"tolerance", "time"}, prepare: func(in *args) func(timeChain, []any) {
		tolerance, ref := in.duration("tolerance"), in.timestamp("time")
		return func(a timeChain, reason []any) { a.BeWithin(tolerance, ref, reason...) }
	}},
}

var guidChecks = map[string]binding[guidChain]{
	"BeEmpty":     noArgs(guidChain.BeEmpty),
	"NotBeEmpty":  noArgs(guidChain.NotBeEmpty),
	"HaveVersion": withInt("version", guidChain.HaveVersion),
}

var versionChecks = map[string]binding[versionChain]{
	"SatisfyConstraint": withString("constraint", versionChain.SatisfyConstraint),
	"BeGreaterThan":     withString("version", versionChain.BeGreaterThan),
	"NotBePrerelease":   noArgs(versionChain.NotBePrerelease),
}

var documentChecks = map[string]binding[documentChain]{
	"HaveField": withString("path", documentChain.HaveField),
	"Satisfy":   withString("expression", documentChain.Satisfy),
	"MatchSchema": {args: []string{"schema"}, prepare: func(in *args) func(documentChain, []any) {
		schema := in.document("schema")
		return func(a documentChain, reason []any) { a.MatchSchema(schema, reason...) }
	}},
}

var kinds = map[SubjectKind]kind{
	KindCollection: define(toCollection, should.Slice[string], should.MustSlice[string], collectionChecks),
	KindDictionary: define(toDictionary, should.Map[string, string], should.MustMap[string, string], dictionaryChecks),
	KindText:       define(toText, should.String, should.MustString, textChecks),
	KindNumber:     define(toNumber, should.Number[float64], should.MustNumber[float64], numberChecks),
	KindBool:       define(toBool, should.Bool, should.MustBool, boolChecks),
	KindDate:       define(toTime, should.Time, should.MustTime, dateChecks),
	KindGUID:       define(toGUID, should.GUID, should.MustGUID, guidChecks),
	KindVersion:    define(toVersion, should.Version, should.MustVersion, versionChecks),
	KindDocument:   define(toDocument, should.Document, should.MustDocument, documentChecks),
}

// Kinds returns the supported subject kinds, sorted.
func Kinds() []SubjectKind {
	return slices.Sorted(maps.Keys(kinds))
}

// Checks returns the check names a subject kind accepts, sorted, or nil
// for an unknown kind.
func Checks(k SubjectKind) []string {
	def, ok := kinds[k]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(def.checks))
}

// RequiredArgs returns the argument names a check needs.
func RequiredArgs(k SubjectKind, check string) ([]string, bool) {
	def, ok := kinds[k]
	if !ok {
		return nil, false
	}
	names, ok := def.checks[check]
	return slices.Clone(names), ok
}

// SubjectError reports a subject that does not decode as its plan's kind.
type SubjectError struct {
	Kind SubjectKind
	Err  error
}

func (e *SubjectError) Error() string {
	return fmt.Sprintf("%s subject: %v", e.Kind, e.Err)
}

func (e *SubjectError) Unwrap() error { return e.Err }

func toCollection(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, err := canonical(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

func toDictionary(v any) (map[string]string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", v)
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		s, err := canonical(item)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

func toText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

func toNumber(v any) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
	return f, nil
}

func toBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
	return b, nil
}

func toGUID(v any) (uuid.UUID, error) {
	s, err := toText(v)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}

func toVersion(v any) (*semver.Version, error) {
	s, err := toText(v)
	if err != nil {
		return nil, err
	}
	return semver.NewVersion(s)
}

func toDocument(v any) (any, error) {
	return v, nil
}
