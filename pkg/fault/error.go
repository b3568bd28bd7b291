package fault

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Entry is one metadata pair attached to an Error.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Error is a single verification failure: the Code of the failed check, a
// human-readable message and ordered diagnostic metadata such as the
// expected value, the actual value and the reason.
//
// An Error is built by exactly one failing check and is only extended with
// With before it is handed to a caller.
type Error struct {
	code     Code
	message  string
	metadata []Entry
}

// New creates an Error. A zero code is a programming error and panics.
func New(code Code, message string) *Error {
	if code.IsZero() {
		panic("fault: New called with a zero Code")
	}
	return &Error{code: code, message: message}
}

// With records a metadata entry and returns e for chaining. Setting a key
// that is already present replaces its value in place.
func (e *Error) With(key, value string) *Error {
	for i := range e.metadata {
		if e.metadata[i].Key == key {
			e.metadata[i].Value = value
			return e
		}
	}
	e.metadata = append(e.metadata, Entry{Key: key, Value: value})
	return e
}

// Code returns the identity of the failed check.
func (e *Error) Code() Code {
	return e.code
}

// Message returns the human-readable message.
func (e *Error) Message() string {
	return e.message
}

// Metadata returns a copy of the metadata entries in insertion order.
func (e *Error) Metadata() []Entry {
	if len(e.metadata) == 0 {
		return nil
	}
	out := make([]Entry, len(e.metadata))
	copy(out, e.metadata)
	return out
}

// Get returns the value stored under key.
func (e *Error) Get(key string) (string, bool) {
	for _, m := range e.metadata {
		if m.Key == key {
			return m.Value, true
		}
	}
	return "", false
}

// Error implements the error interface.
func (e *Error) Error() string {
	var buf strings.Builder
	buf.WriteString(e.code.String())
	if e.message != "" {
		buf.WriteString(": ")
		buf.WriteString(e.message)
	}
	if len(e.metadata) > 0 {
		buf.WriteString(" (")
		for i, m := range e.metadata {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s=%s", m.Key, m.Value)
		}
		buf.WriteString(")")
	}
	return buf.String()
}

// Is reports whether target is an *Error with the same Code, so that
// errors.Is(err, fault.New(code, "")) matches any failure of that check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.code == e.code
}

// HasCode reports whether err, or any error it wraps, is an *Error whose
// code is code or a descendant of it.
func HasCode(err error, code Code) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return false
	}
	return fe.code.HasPrefix(code)
}

type errorJSON struct {
	Code     Code    `json:"code"`
	Message  string  `json:"message"`
	Metadata []Entry `json:"metadata,omitempty"`
}

// MarshalJSON encodes the error with its metadata in order.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{
		Code:     e.code,
		Message:  e.message,
		Metadata: e.metadata,
	})
}

// UnmarshalJSON decodes an error produced by MarshalJSON.
func (e *Error) UnmarshalJSON(data []byte) error {
	var raw errorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Code.IsZero() {
		return errors.New("fault: missing code")
	}
	e.code = raw.Code
	e.message = raw.Message
	e.metadata = raw.Metadata
	return nil
}
