package verify

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cgast/should/pkg/events"
	"github.com/cgast/should/pkg/fault"
	"github.com/cgast/should/pkg/outcome"
)

// Mode selects what an Engine does with a failing check. It is fixed when
// the engine is created.
type Mode int

const (
	// Collect captures the first failure and returns it from Result.
	Collect Mode = iota
	// Raise hands the first failure to the engine's Raiser immediately.
	Raise
)

func (m Mode) String() string {
	switch m {
	case Collect:
		return "collect"
	case Raise:
		return "raise"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "collect" or "raise". The empty string is Collect.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "collect":
		return Collect, nil
	case "raise":
		return Raise, nil
	default:
		return Collect, fmt.Errorf("unknown mode %q (expected collect or raise)", s)
	}
}

// CheckEvent is the payload of check events published on a Bus.
type CheckEvent struct {
	Code     fault.Code    `json:"code"`
	Mode     string        `json:"mode"`
	Message  string        `json:"message,omitempty"`
	Metadata []fault.Entry `json:"metadata,omitempty"`
}

type settings struct {
	logger *slog.Logger
	bus    events.Bus
	raise  Raiser
}

// Option configures an Engine.
type Option func(*settings)

// WithLogger logs every evaluated check at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBus publishes a check event for every Assert call.
func WithBus(bus events.Bus) Option {
	return func(s *settings) {
		s.bus = bus
	}
}

// WithRaiser replaces the default Panic raiser used in Raise mode.
func WithRaiser(r Raiser) Option {
	return func(s *settings) {
		if r != nil {
			s.raise = r
		}
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Engine holds a subject and evaluates named checks against it. Catalogs
// embed *Engine[T] and wrap Assert in one method per check.
//
// The first failing check wins: once a failure is recorded it is never
// replaced, and every later Assert returns without evaluating its predicate.
// Checks that have side effects are therefore skipped after a failure. An
// Engine is used by one goroutine at a time.
type Engine[T any] struct {
	subject T
	mode    Mode
	first   *fault.Error
	settings
}

// New creates an Engine for subject. The subject is never modified.
func New[T any](subject T, mode Mode, opts ...Option) *Engine[T] {
	e := &Engine[T]{
		subject:  subject,
		mode:     mode,
		settings: settings{logger: discard, raise: Panic},
	}
	for _, opt := range opts {
		opt(&e.settings)
	}
	return e
}

// Assert evaluates pred against the subject.
//
// If pred holds, Assert returns e. Otherwise it creates a *fault.Error from
// code and message, passes it through build (which may add metadata; nil
// means none) and records it as the first failure. In Raise mode the
// failure is then handed to the Raiser, which by default panics.
//
// When a failure has already been recorded, Assert returns e without
// calling pred. Panics raised by pred itself are not recovered.
func (e *Engine[T]) Assert(pred func(T) bool, code fault.Code, message string, build func(*fault.Error) *fault.Error) *Engine[T] {
	if pred == nil {
		panic("verify: Assert called with a nil predicate")
	}
	if e.first != nil {
		e.publish(events.EventCheckSkipped, code, nil)
		return e
	}

	if pred(e.subject) {
		e.logger.Debug("check passed", "code", code.String(), "mode", e.mode.String())
		e.publish(events.EventCheckPassed, code, nil)
		return e
	}

	err := fault.New(code, message)
	if build != nil {
		if err = build(err); err == nil {
			panic(fmt.Sprintf("verify: metadata builder for %s returned nil", code))
		}
	}
	e.first = err

	e.logger.Debug("check failed", "code", code.String(), "mode", e.mode.String(), "message", message)
	e.publish(events.EventCheckFailed, code, err)

	if e.mode == Raise {
		e.raise(err)
	}
	return e
}

// And returns e. It only exists so chains read naturally.
func (e *Engine[T]) And() *Engine[T] {
	return e
}

// Subject returns the value under test.
func (e *Engine[T]) Subject() T {
	return e.subject
}

// Mode returns the engine's mode.
func (e *Engine[T]) Mode() Mode {
	return e.mode
}

// Failed reports whether a check has failed.
func (e *Engine[T]) Failed() bool {
	return e.first != nil
}

// Result returns Success(subject) if every check held, otherwise the first
// failure. It can be called any number of times.
func (e *Engine[T]) Result() outcome.Result[T] {
	if e.first != nil {
		return outcome.Failure[T](e.first)
	}
	return outcome.Success(e.subject)
}

// VoidResult is Result without the subject.
func (e *Engine[T]) VoidResult() outcome.Void {
	if e.first != nil {
		return outcome.Fail(e.first)
	}
	return outcome.Ok()
}

func (e *Engine[T]) publish(typ events.EventType, code fault.Code, err *fault.Error) {
	if e.bus == nil {
		return
	}
	data := CheckEvent{Code: code, Mode: e.mode.String()}
	if err != nil {
		data.Message = err.Message()
		data.Metadata = err.Metadata()
	}
	e.bus.Publish(events.NewEvent(typ, code.String(), data))
}
