// Package middleware holds the echo middleware: request ids, the
// request-scoped logger, Clerk authentication, New Relic tracing,
// Prometheus request metrics, rate limiting and the global error handler.
package middleware
