// Package errs defines the error types the application returns.
//
// HTTPError is the JSON error shape API clients receive. DataAccessError
// is what every dashboard query returns when the store fails: a generic,
// operation-specific message that never carries the store's own text.
package errs
