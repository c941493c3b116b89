package handler

import (
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
)

// Handlers groups every HTTP handler so the router takes one value.
type Handlers struct {
	Health    *HealthHandler
	OpenAPI   *OpenAPIHandler
	Dashboard *DashboardHandler
	Invoice   *InvoiceHandler
	Customer  *CustomerHandler
	Report    *ReportHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		OpenAPI:   NewOpenAPIHandler(s),
		Dashboard: NewDashboardHandler(s, services.Dashboard),
		Invoice:   NewInvoiceHandler(s, services.Dashboard),
		Customer:  NewCustomerHandler(s, services.Dashboard),
		Report:    NewReportHandler(s, services.Reports),
	}
}
