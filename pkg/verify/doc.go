// Package verify is the generic check engine behind the catalogs in
// package should.
//
// An Engine binds one subject and one Mode. Catalog methods call Assert
// once per named check, supplying a predicate, the check's fault.Code, a
// message and a metadata builder:
//
//	func (a *SliceAssertions[E]) HaveCount(n int) *SliceAssertions[E] {
//		a.Assert(func(s []E) bool { return len(s) == n }, haveCount, msg, build)
//		return a
//	}
//
// In Collect mode the first failure is kept and every later check is
// skipped without evaluating its predicate; Result or VoidResult then
// returns an outcome. In Raise mode the first failure is handed to a
// Raiser, which panics by default (see Catch) or fails a test (see
// FailTest).
package verify
