// Package errs defines the error types the HTTP layer understands.
//
// Every failure that reaches a client is an *HTTPError and is rendered with
// the same shape:
//
//	{ "error": "<human-readable message>" }
//
// The underlying cause, when there is one, stays on the server side for
// logging and is never serialized.
package errs
