// Package errors provides structured, actionable errors for crumbtrail.
//
// Each error has a registered code that maps to a category, a short
// message, an explanation and a hint:
//
//	err := errors.New("E101")
//	fmt.Print(err.Format())
//	// ERROR E101: Breadcrumb scope not found
//	// ...
//
// Codes are grouped by range: E1xx composition mistakes, E2xx runtime,
// E3xx configuration, E4xx live protocol.
package errors
