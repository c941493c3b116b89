// Package service contains the dashboard's read logic.
//
// It sits between the handler and repository layers. It calls the
// repositories, shapes their rows for display (currency formatting,
// unit conversion) and turns store failures into generic,
// operation-specific errors after logging them.
package service
