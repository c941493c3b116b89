// Package handler is the HTTP layer of the dashboard read API.
//
// Handlers bind and validate query, path and body parameters, call the
// service layer and write JSON. Errors are returned to the global error
// handler, which renders them.
package handler
