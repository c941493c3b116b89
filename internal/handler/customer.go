package handler

import (
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type CustomerHandler struct {
	Handler
	dashboard *service.DashboardService
}

func NewCustomerHandler(s *server.Server, dashboard *service.DashboardService) *CustomerHandler {
	return &CustomerHandler{
		Handler:   NewHandler(s),
		dashboard: dashboard,
	}
}

func (h *CustomerHandler) ListCustomers(c echo.Context, _ *EmptyRequest) ([]model.CustomerField, error) {
	return h.dashboard.FetchCustomers(c.Request().Context())
}

func (h *CustomerHandler) ListCustomersTable(c echo.Context, req *FilterRequest) ([]model.CustomerRow, error) {
	return h.dashboard.FetchFilteredCustomers(c.Request().Context(), req.Query)
}
