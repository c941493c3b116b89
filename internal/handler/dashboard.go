package handler

import (
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the overview page's revenue chart, latest
// invoices and summary cards.
type DashboardHandler struct {
	Handler
	dashboard *service.DashboardService
}

func NewDashboardHandler(s *server.Server, dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		Handler:   NewHandler(s),
		dashboard: dashboard,
	}
}

func (h *DashboardHandler) GetRevenue(c echo.Context, _ *EmptyRequest) ([]model.Revenue, error) {
	return h.dashboard.FetchRevenue(c.Request().Context())
}

func (h *DashboardHandler) GetLatestInvoices(c echo.Context, _ *EmptyRequest) ([]model.LatestInvoice, error) {
	return h.dashboard.FetchLatestInvoices(c.Request().Context())
}

func (h *DashboardHandler) GetCards(c echo.Context, _ *EmptyRequest) (model.CardData, error) {
	return h.dashboard.FetchCardData(c.Request().Context())
}
