package verify

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgast/should/pkg/events"
	"github.com/cgast/should/pkg/fault"
)

var (
	family    = fault.Root("Assertion").Compose("Test")
	notEmpty  = family.Compose("NotBeEmpty")
	haveCount = family.Compose("HaveCount")
	contain   = family.Compose("Contain")
)

func isNotEmpty(s []int) bool { return len(s) > 0 }

func countIs(n int) func([]int) bool {
	return func(s []int) bool { return len(s) == n }
}

func countMeta(n int, s []int) func(*fault.Error) *fault.Error {
	return func(err *fault.Error) *fault.Error {
		return err.With("expectedCount", fmt.Sprint(n)).With("actualCount", fmt.Sprint(len(s)))
	}
}

func TestCollectAllPass(t *testing.T) {
	subject := []int{1, 2, 3}
	e := New(subject, Collect)

	e.Assert(isNotEmpty, notEmpty, "expected a non-empty collection", nil).
		And().
		Assert(countIs(3), haveCount, "expected 3 item(s)", nil)

	r := e.Result()
	require.True(t, r.IsSuccess())
	got := r.Value()
	assert.Equal(t, subject, got)
	assert.Same(t, &subject[0], &got[0], "result must carry the original subject")
	assert.True(t, e.VoidResult().IsSuccess())
	assert.False(t, e.Failed())
}

func TestCollectFirstFailureWins(t *testing.T) {
	subject := []int{1, 2, 3}
	e := New(subject, Collect)

	e.Assert(isNotEmpty, notEmpty, "expected a non-empty collection", nil).
		And().
		Assert(countIs(5), haveCount, "expected 5 item(s)", countMeta(5, subject)).
		Assert(countIs(7), haveCount.Parent().Compose("Other"), "expected 7 item(s)", nil)

	r := e.Result()
	require.True(t, r.IsFailure())
	err := r.Err()
	assert.Equal(t, haveCount, err.Code())
	assert.Equal(t, "expected 5 item(s)", err.Message())
	assert.Equal(t, []fault.Entry{
		{Key: "expectedCount", Value: "5"},
		{Key: "actualCount", Value: "3"},
	}, err.Metadata())
	assert.True(t, e.Failed())
}

func TestCollectSkipsPredicatesAfterFailure(t *testing.T) {
	calls := 0
	counting := func([]int) bool { calls++; return true }

	e := New([]int{}, Collect)
	e.Assert(counting, contain, "first", nil)
	e.Assert(isNotEmpty, notEmpty, "fails", nil)
	require.Equal(t, 1, calls)

	for i := 0; i < 5; i++ {
		e.Assert(counting, contain, "after failure", nil)
	}
	assert.Equal(t, 1, calls, "predicates after the first failure must not run")
	assert.Equal(t, notEmpty, e.Result().Err().Code())
}

func TestResultIsIdempotent(t *testing.T) {
	e := New([]int{1}, Collect)
	e.Assert(countIs(2), haveCount, "expected 2 item(s)", nil)

	first, second := e.Result(), e.Result()
	assert.Equal(t, first, second)
	assert.Same(t, first.Err(), second.Err())

	v1, v2 := e.VoidResult(), e.VoidResult()
	assert.Equal(t, v1, v2)
	assert.Same(t, first.Err(), v1.Err())
}

func TestAndDoesNotTouchState(t *testing.T) {
	e := New([]int{}, Collect)
	assert.Same(t, e, e.And())

	e.Assert(isNotEmpty, notEmpty, "fails", nil)
	assert.Same(t, e, e.And())
	assert.True(t, e.And().Failed())
}

func TestRaiseModePanicsWithFault(t *testing.T) {
	laterRan := false
	err := Catch(func() {
		New([]int{}, Raise).
			Assert(isNotEmpty, notEmpty, "expected a non-empty collection", nil).
			Assert(func([]int) bool { laterRan = true; return true }, contain, "later", nil)
	})

	require.NotNil(t, err)
	assert.Equal(t, notEmpty, err.Code())
	assert.Equal(t, "Assertion/Test/NotBeEmpty", err.Code().String())
	assert.False(t, laterRan, "raise mode must stop the chain at the first failure")
}

func TestRaiseModePassingChain(t *testing.T) {
	var e *Engine[[]int]
	err := Catch(func() {
		e = New([]int{1, 2}, Raise).Assert(countIs(2), haveCount, "expected 2", nil)
	})
	assert.Nil(t, err)
	assert.True(t, e.Result().IsSuccess())
	assert.Equal(t, Raise, e.Mode())
}

func TestRaiserThatReturns(t *testing.T) {
	var raised []*fault.Error
	calls := 0
	e := New([]int{}, Raise, WithRaiser(func(err *fault.Error) { raised = append(raised, err) }))

	e.Assert(isNotEmpty, notEmpty, "fails", nil).
		Assert(func([]int) bool { calls++; return false }, haveCount, "never evaluated", nil)

	require.Len(t, raised, 1)
	assert.Equal(t, notEmpty, raised[0].Code())
	assert.Equal(t, 0, calls)
	assert.Same(t, raised[0], e.Result().Err())
}

type fakeTB struct {
	helpers int
	fatal   []any
}

func (f *fakeTB) Helper()           { f.helpers++ }
func (f *fakeTB) Fatal(args ...any) { f.fatal = append(f.fatal, args...) }

func TestFailTest(t *testing.T) {
	tb := &fakeTB{}
	New([]int{1}, Raise, WithRaiser(FailTest(tb))).
		Assert(countIs(5), haveCount, "expected 5 item(s)", countMeta(5, []int{1}))

	require.Len(t, tb.fatal, 1)
	assert.Equal(t, "Assertion/Test/HaveCount: expected 5 item(s) (expectedCount=5, actualCount=1)", tb.fatal[0])
	assert.Equal(t, 1, tb.helpers)
}

func TestPredicatePanicPropagates(t *testing.T) {
	boom := errors.New("boom")
	for _, mode := range []Mode{Collect, Raise} {
		t.Run(mode.String(), func(t *testing.T) {
			assert.PanicsWithValue(t, boom, func() {
				_ = Catch(func() {
					New([]int{}, mode).Assert(func([]int) bool { panic(boom) }, notEmpty, "m", nil)
				})
			})
		})
	}
}

func TestProgrammerErrors(t *testing.T) {
	assert.PanicsWithValue(t, "verify: Assert called with a nil predicate", func() {
		New([]int{}, Collect).Assert(nil, notEmpty, "m", nil)
	})
	assert.Panics(t, func() {
		New([]int{}, Collect).Assert(isNotEmpty, notEmpty, "m", func(*fault.Error) *fault.Error { return nil })
	})
	assert.Panics(t, func() {
		New([]int{}, Collect).Assert(isNotEmpty, fault.Code{}, "m", nil)
	})
}

func TestMissingSubjectReachesPredicate(t *testing.T) {
	var seen []int
	called := false
	New[[]int](nil, Collect).Assert(func(s []int) bool {
		called = true
		seen = s
		return s == nil
	}, notEmpty, "m", nil)

	assert.True(t, called)
	assert.Nil(t, seen)
}

func TestEngineEvents(t *testing.T) {
	bus := events.NewMemoryBus()
	e := New([]int{1}, Collect, WithBus(bus))

	e.Assert(isNotEmpty, notEmpty, "m", nil).
		Assert(countIs(2), haveCount, "expected 2", countMeta(2, []int{1})).
		Assert(isNotEmpty, contain, "skipped", nil)
	_ = e.Result()

	assert.Equal(t, 1, bus.Count(events.EventCheckPassed))
	assert.Equal(t, 1, bus.Count(events.EventCheckFailed))
	assert.Equal(t, 1, bus.Count(events.EventCheckSkipped))

	history := bus.History(time.Time{})
	require.Len(t, history, 3)
	failed := history[1]
	assert.Equal(t, haveCount.String(), failed.Subject)
	data, ok := failed.Data.(CheckEvent)
	require.True(t, ok)
	assert.Equal(t, "collect", data.Mode)
	assert.Equal(t, "expected 2", data.Message)
	assert.Len(t, data.Metadata, 2)
}

func TestEngineLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New([]int{}, Collect, WithLogger(logger)).Assert(isNotEmpty, notEmpty, "expected items", nil)

	out := buf.String()
	assert.Contains(t, out, "check failed")
	assert.Contains(t, out, "code=Assertion/Test/NotBeEmpty")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Collect, false},
		{"collect", Collect, false},
		{"Raise", Raise, false},
		{" raise ", Raise, false},
		{"panic", Collect, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
