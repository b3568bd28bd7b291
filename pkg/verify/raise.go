package verify

import "github.com/cgast/should/pkg/fault"

// Raiser receives the first failure of a Raise-mode engine. It is expected
// not to return normally; if it does, the engine still treats the chain as
// failed and skips every later check.
type Raiser func(err *fault.Error)

// Panic is the default Raiser. It panics with err.
func Panic(err *fault.Error) {
	panic(err)
}

// TB is the subset of testing.TB used by FailTest.
type TB interface {
	Helper()
	Fatal(args ...any)
}

// FailTest returns a Raiser that fails t. Fatal stops the calling
// goroutine, so nothing after the failing check runs.
func FailTest(t TB) Raiser {
	return func(err *fault.Error) {
		t.Helper()
		t.Fatal(err.Error())
	}
}

// Catch runs fn and returns the *fault.Error it raised, or nil. Any other
// panic is re-raised unchanged.
func Catch(fn func()) (err *fault.Error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		fe, ok := r.(*fault.Error)
		if !ok {
			panic(r)
		}
		err = fe
	}()
	fn()
	return nil
}
