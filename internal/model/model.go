// Package model holds the typed rows the dashboard reads from the store
// and the display shapes it returns.
//
// Amounts stored in the database are integer minor units (cents). Types
// that carry a formatted amount say so in their field comments.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Revenue is one month of the precomputed revenue series.
type Revenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// LatestInvoice is a row of the "latest invoices" card.
type LatestInvoice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Email    string `json:"email"`
	// Amount is formatted, e.g. "$1,250.00".
	Amount string `json:"amount"`
}

// LatestInvoiceRaw is LatestInvoice as read from the store.
type LatestInvoiceRaw struct {
	ID       string
	Name     string
	ImageURL string
	Email    string
	Amount   int64
}

// CardData feeds the four summary cards.
type CardData struct {
	NumberOfInvoices     int64  `json:"number_of_invoices"`
	NumberOfCustomers    int64  `json:"number_of_customers"`
	TotalPaidInvoices    string `json:"total_paid_invoices"`
	TotalPendingInvoices string `json:"total_pending_invoices"`
}

// InvoiceRow is a row of the filtered invoices table. Amount stays in
// minor units.
type InvoiceRow struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	ImageURL   string        `json:"image_url"`
	Date       time.Time     `json:"date"`
	Amount     int64         `json:"amount"`
	Status     InvoiceStatus `json:"status"`
}

// InvoiceRecord is a bare invoices row.
type InvoiceRecord struct {
	ID         string
	CustomerID string
	Amount     int64
	Status     InvoiceStatus
}

// InvoiceForm pre-fills the invoice edit form. Amount is in major units.
type InvoiceForm struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     InvoiceStatus   `json:"status"`
}

// CustomerField is a customer option for selection widgets.
type CustomerField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CustomerAggregate is a customers row with its invoice aggregates in
// minor units.
type CustomerAggregate struct {
	ID            string
	Name          string
	Email         string
	ImageURL      string
	TotalInvoices int64
	TotalPending  int64
	TotalPaid     int64
}

// CustomerRow is a row of the customers table with formatted totals.
type CustomerRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	ImageURL      string `json:"image_url"`
	TotalInvoices int64  `json:"total_invoices"`
	TotalPending  string `json:"total_pending"`
	TotalPaid     string `json:"total_paid"`
}
