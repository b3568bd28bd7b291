// Package fault identifies and describes verification failures.
//
// A Code names a kind of failure as a path of segments. Catalog families
// declare one root and compose a child per check:
//
//	var collection = fault.Root("Assertion").Compose("Collection")
//	var haveCount  = collection.Compose("HaveCount")
//
// An Error is one concrete failure: a Code, a message and ordered metadata.
// It is built fluently at the point of failure:
//
//	fault.New(haveCount, "expected 5 item(s)").
//		With("expectedCount", "5").
//		With("actualCount", "3")
//
// Because renders the optional reason a caller attaches to a check, using
// positional {0}-style placeholders.
package fault
