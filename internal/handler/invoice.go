package handler

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/lib/currency"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type InvoiceHandler struct {
	Handler
	dashboard *service.DashboardService
}

func NewInvoiceHandler(s *server.Server, dashboard *service.DashboardService) *InvoiceHandler {
	return &InvoiceHandler{
		Handler:   NewHandler(s),
		dashboard: dashboard,
	}
}

// InvoicePagesResponse is the page count of the filtered invoices table.
type InvoicePagesResponse struct {
	TotalPages int `json:"total_pages"`
}

var invoiceNotFoundCode = "INVOICE_NOT_FOUND"

func (h *InvoiceHandler) ListInvoices(c echo.Context, req *ListInvoicesRequest) ([]model.InvoiceRow, error) {
	return h.dashboard.FetchFilteredInvoices(c.Request().Context(), req.Query, req.Page)
}

func (h *InvoiceHandler) GetPages(c echo.Context, req *FilterRequest) (InvoicePagesResponse, error) {
	pages, err := h.dashboard.FetchInvoicesPages(c.Request().Context(), req.Query)
	if err != nil {
		return InvoicePagesResponse{}, err
	}
	return InvoicePagesResponse{TotalPages: pages}, nil
}

// GetInvoice answers 404 for unknown and malformed ids alike.
func (h *InvoiceHandler) GetInvoice(c echo.Context, req *GetInvoiceRequest) (*model.InvoiceForm, error) {
	form, err := h.dashboard.FetchInvoiceByID(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errs.NewNotFoundError("Invoice not found", true, &invoiceNotFoundCode)
	}
	return form, nil
}

// ExportCSV returns every invoice matching the filter as CSV, amounts in
// major units.
func (h *InvoiceHandler) ExportCSV(c echo.Context, req *FilterRequest) ([]byte, error) {
	rows, err := h.dashboard.CollectInvoices(c.Request().Context(), req.Query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "customer_id", "name", "email", "date", "amount", "status"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.ID,
			r.CustomerID,
			r.Name,
			r.Email,
			r.Date.Format("2006-01-02"),
			currency.ToMajor(r.Amount).StringFixed(currency.MinorUnitExponent),
			string(r.Status),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	c.Response().Header().Set("X-Total-Count", strconv.Itoa(len(rows)))
	return buf.Bytes(), nil
}
