// Package errors provides structured, actionable errors for viewlets.
//
// Every error carries a stable code (e.g. "V020") that maps to a registered
// template with a short message, a detailed explanation and a category.
// Errors can be decorated with the viewlet or slot they concern, a hint on
// how to fix the problem, and a wrapped cause.
//
// # Categories
//
//   - config: invalid container or layout configuration
//   - lifecycle: calls made in the wrong container state
//   - lookup: unknown viewlets, slots or bindings
//   - render: template compilation and rendering failures
//   - transport: live session failures in the server package
//
// # Usage
//
//	err := errors.New("V020").
//	    WithSubject("settngs").
//	    WithSuggestion("did you mean \"settings\"?")
//
//	fmt.Println(err.Format())
//	// ERROR V020: Viewlet not found
//	//
//	//   viewlet: settngs
//	//
//	//   Hint: did you mean "settings"?
//
// Errors created from the same code match each other with errors.Is, so
// package-level sentinels built with New can be compared against decorated
// instances returned at runtime.
package errors
