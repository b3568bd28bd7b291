package plan

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ArgError reports a missing or mistyped check argument.
type ArgError struct {
	Check string
	Arg   string
	Msg   string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("check %s: argument %q %s", e.Check, e.Arg, e.Msg)
}

// args wraps a check's argument map with typed accessors. The first
// accessor error sticks, so bindings read all arguments and test err once.
type args struct {
	check  string
	values map[string]any
	err    error
}

func (a *args) fail(name, msg string) {
	if a.err == nil {
		a.err = &ArgError{Check: a.check, Arg: name, Msg: msg}
	}
}

func (a *args) get(name string) (any, bool) {
	v, ok := a.values[name]
	if !ok || v == nil {
		a.fail(name, "is required")
		return nil, false
	}
	return v, true
}

func (a *args) str(name string) string {
	v, ok := a.get(name)
	if !ok {
		return ""
	}
	s, isString := v.(string)
	if !isString {
		a.fail(name, fmt.Sprintf("must be a string, got %T", v))
	}
	return s
}

func (a *args) number(name string) float64 {
	v, ok := a.get(name)
	if !ok {
		return 0
	}
	if s, isString := v.(string); isString {
		// {{param}} substitutions are usually quoted in YAML.
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			a.fail(name, fmt.Sprintf("must be a number, got %q", s))
		}
		return f
	}
	f, isNumber := toFloat(v)
	if !isNumber {
		a.fail(name, fmt.Sprintf("must be a number, got %T", v))
	}
	return f
}

func (a *args) integer(name string) int {
	f := a.number(name)
	// Inf truncates to itself; int(f) is undefined outside the int range.
	if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt || f >= -math.MinInt {
		a.fail(name, "must be an integer")
		return 0
	}
	return int(f)
}

func (a *args) duration(name string) time.Duration {
	s := a.str(name)
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		a.fail(name, err.Error())
	}
	return d
}

func (a *args) timestamp(name string) time.Time {
	v, ok := a.get(name)
	if !ok {
		return time.Time{}
	}
	t, err := toTime(v)
	if err != nil {
		a.fail(name, err.Error())
	}
	return t
}

// document returns the argument re-encoded as JSON. Strings pass through
// unchanged so a schema may be given inline or as a JSON string.
func (a *args) document(name string) string {
	v, ok := a.get(name)
	if !ok {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		a.fail(name, err.Error())
	}
	return string(data)
}

// canonical returns the argument in the canonical form used for
// collection items and dictionary values.
func (a *args) canonical(name string) string {
	v, ok := a.get(name)
	if !ok {
		return ""
	}
	s, err := canonical(v)
	if err != nil {
		a.fail(name, err.Error())
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	default:
		return time.Time{}, fmt.Errorf("must be an RFC 3339 timestamp, got %T", v)
	}
}

// canonical encodes a decoded value as JSON so that equal documents
// compare equal as strings, whichever decoder produced them. YAML integers
// and JSON numbers of the same value encode identically.
func canonical(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
