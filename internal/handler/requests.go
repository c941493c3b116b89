package handler

import "github.com/deppfellow/invoice-dashboard/internal/validation"

// EmptyRequest is bound by endpoints without parameters.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// ListInvoicesRequest selects one page of the filtered invoices table.
type ListInvoicesRequest struct {
	Query string `query:"query" validate:"max=200"`
	Page  int    `query:"page" validate:"min=1"`
}

func (r *ListInvoicesRequest) SetDefaults() { r.Page = 1 }

func (r *ListInvoicesRequest) Validate() error { return validation.Struct(r) }

// FilterRequest carries the free-text filter shared by the table endpoints.
type FilterRequest struct {
	Query string `query:"query" validate:"max=200"`
}

func (r *FilterRequest) Validate() error { return validation.Struct(r) }

// GetInvoiceRequest addresses one invoice.
type GetInvoiceRequest struct {
	ID string `param:"id" validate:"required"`
}

func (r *GetInvoiceRequest) Validate() error { return validation.Struct(r) }

// InvoiceReportRequest asks for the invoices matching Query to be mailed
// to To.
type InvoiceReportRequest struct {
	To    string `json:"to" validate:"required,email"`
	Query string `json:"query" validate:"max=200"`
}

func (r *InvoiceReportRequest) Validate() error { return validation.Struct(r) }
