package handler

import (
	"github.com/deppfellow/invoice-dashboard/internal/errs"
	"github.com/deppfellow/invoice-dashboard/internal/middleware"
	"github.com/deppfellow/invoice-dashboard/internal/server"
	"github.com/deppfellow/invoice-dashboard/internal/service"
	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	Handler
	reports *service.ReportService
}

func NewReportHandler(s *server.Server, reports *service.ReportService) *ReportHandler {
	return &ReportHandler{
		Handler: NewHandler(s),
		reports: reports,
	}
}

// ReportAcceptedResponse identifies the queued report task.
type ReportAcceptedResponse struct {
	TaskID string `json:"task_id"`
}

// RequestInvoiceReport queues an emailed report of the matching invoices.
func (h *ReportHandler) RequestInvoiceReport(c echo.Context, req *InvoiceReportRequest) (ReportAcceptedResponse, error) {
	taskID, err := h.reports.EnqueueInvoiceReport(c.Request().Context(), req.To, req.Query)
	if err != nil {
		middleware.GetLogger(c).Error().Err(err).Msg("failed to enqueue invoice report")
		return ReportAcceptedResponse{}, errs.NewServiceUnavailableError("Reports are temporarily unavailable.")
	}
	return ReportAcceptedResponse{TaskID: taskID}, nil
}
