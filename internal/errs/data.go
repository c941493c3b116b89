package errs

import (
	"net/http"
)

// DataAccessError is returned by every dashboard read operation when the
// store fails.
//
// It deliberately has no Unwrap: the driver error is logged at the
// operation boundary and dropped, so callers (and errors.Is/As) can never
// reach SQL text, constraint names or connection details.
type DataAccessError struct {
	// Op names the failed operation, e.g. "fetch_filtered_invoices".
	Op string
	// Message is the human-readable description, e.g. "Failed to fetch invoices.".
	Message string
}

func (e *DataAccessError) Error() string {
	return e.Message
}

// NewDataAccessError builds the generic error for an operation.
func NewDataAccessError(op, message string) *DataAccessError {
	return &DataAccessError{Op: op, Message: message}
}

// ToHTTPError renders the error as a 500 whose message is safe to show.
func (e *DataAccessError) ToHTTPError() *HTTPError {
	return &HTTPError{
		Code:     "DATA_ACCESS_ERROR",
		Message:  e.Message,
		Status:   http.StatusInternalServerError,
		Override: true,
	}
}
