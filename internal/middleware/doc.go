// Package middleware provides HTTP middleware for the Bookmarks API.
//
// # Available Middleware
//
//   - CORS: Cross-origin policy and preflight handling
//   - BodyLimit: Caps request body size
//   - RequestID: Propagates or generates X-Request-ID
//   - Logger: One structured log line per request
//   - Recovery: Turns panics into errors for the terminal handler
//
// Middleware compose with Chain, outermost first:
//
//	h := middleware.Chain(router, middleware.RequestID, middleware.Logger(logger))
//
// # Context Values
//
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
