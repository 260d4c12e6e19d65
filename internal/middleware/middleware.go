// Package middleware holds the echo middleware shared by every route:
// request ids, the request-scoped logger, request logging, New Relic
// tracing, Prometheus metrics, CORS, secure headers, panic recovery and the
// global error handler.
package middleware
