// Package validation binds query, path and JSON input into request
// structs and checks their `validate` tags, turning failures into a 400
// errs.HTTPError with one entry per offending field, named the way the
// client sent it.
package validation
