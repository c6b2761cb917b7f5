// Package model defines the error values shared across the Bookmarks API.
//
// # HTTP Errors
//
// HTTPError carries the status code a failure should be reported with. Any
// layer can return one; the terminal error handler in package handler is the
// only place that turns it into a response:
//
//	return model.NewHTTPError(http.StatusForbidden, "not your bookmark")
//
// Errors without a status are reported as 500:
//
//	model.StatusCode(errors.New("boom")) // 500
//
// # Stack Traces
//
// Constructors record the caller's stack. Plain errors get one through
// WithStack. Stacks are only ever rendered outside production.
package model
