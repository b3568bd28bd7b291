package outcome

import "github.com/cgast/should/pkg/fault"

// Void is a Result without a success payload, used when the caller only
// needs to know whether every check held. The zero Void is a success.
type Void struct {
	err *fault.Error
}

// Ok returns a successful Void.
func Ok() Void {
	return Void{}
}

// Fail returns a failed Void. A nil err panics.
func Fail(err *fault.Error) Void {
	if err == nil {
		panic("outcome: Fail called with a nil error")
	}
	return Void{err: err}
}

// IsSuccess reports whether v is a success.
func (v Void) IsSuccess() bool {
	return v.err == nil
}

// IsFailure reports whether v holds an error.
func (v Void) IsFailure() bool {
	return v.err != nil
}

// Err returns the error of a failed Void and panics on a success.
func (v Void) Err() *fault.Error {
	if v.err == nil {
		panic("outcome: Err called on a successful result")
	}
	return v.err
}

// AsError returns the failure as an error, or nil on success.
func (v Void) AsError() error {
	if v.err == nil {
		return nil
	}
	return v.err
}

// String renders v for diagnostics.
func (v Void) String() string {
	if v.err != nil {
		return "Failure(" + v.err.Error() + ")"
	}
	return "Success"
}
