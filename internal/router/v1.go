package router

import (
	"net/http"

	"github.com/deppfellow/invoice-dashboard/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerV1Routes(v1 *echo.Group, h *handler.Handlers) {
	dashboard := v1.Group("/dashboard")
	dashboard.GET("/revenue", handler.Handle(h.Dashboard.Handler, h.Dashboard.GetRevenue, http.StatusOK))
	dashboard.GET("/latest-invoices", handler.Handle(h.Dashboard.Handler, h.Dashboard.GetLatestInvoices, http.StatusOK))
	dashboard.GET("/cards", handler.Handle(h.Dashboard.Handler, h.Dashboard.GetCards, http.StatusOK))

	invoices := v1.Group("/invoices")
	invoices.GET("", handler.Handle(h.Invoice.Handler, h.Invoice.ListInvoices, http.StatusOK))
	invoices.GET("/pages", handler.Handle(h.Invoice.Handler, h.Invoice.GetPages, http.StatusOK))
	invoices.GET("/export", handler.HandleFile(h.Invoice.Handler, h.Invoice.ExportCSV, http.StatusOK, "invoices.csv", "text/csv"))
	invoices.GET("/:id", handler.Handle(h.Invoice.Handler, h.Invoice.GetInvoice, http.StatusOK))

	customers := v1.Group("/customers")
	customers.GET("", handler.Handle(h.Customer.Handler, h.Customer.ListCustomers, http.StatusOK))
	customers.GET("/table", handler.Handle(h.Customer.Handler, h.Customer.ListCustomersTable, http.StatusOK))

	reports := v1.Group("/reports")
	reports.POST("/invoices", handler.Handle(h.Report.Handler, h.Report.RequestInvoiceReport, http.StatusAccepted))
}
