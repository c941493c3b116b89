package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/lib/email"
	"github.com/deppfellow/invoice-dashboard/internal/metrics"
	"github.com/deppfellow/invoice-dashboard/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// InvoiceSource returns every invoice matching a dashboard filter.
type InvoiceSource interface {
	CollectInvoices(ctx context.Context, query string) ([]model.InvoiceRow, error)
}

// ReportMailer delivers a rendered invoice report.
type ReportMailer interface {
	SendInvoiceReport(ctx context.Context, to string, report email.InvoiceReport) error
}

// ReportHandler processes TaskInvoiceReport.
type ReportHandler struct {
	source  InvoiceSource
	mailer  ReportMailer
	metrics *metrics.Metrics
	logger  *zerolog.Logger
	now     func() time.Time
}

func NewReportHandler(source InvoiceSource, mailer ReportMailer, m *metrics.Metrics, logger *zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		source:  source,
		mailer:  mailer,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// InitHandlers installs the task handlers' dependencies. It must run
// before Start.
func (j *JobService) InitHandlers(source InvoiceSource, mailer ReportMailer, m *metrics.Metrics) {
	j.reports = NewReportHandler(source, mailer, m, j.logger)
}

// ProcessTask collects the matching invoices and mails the report.
// Returned errors make asynq retry the task; a malformed payload is
// never retried.
func (h *ReportHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p InvoiceReportPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.metrics.ObserveReport("failed")
		return fmt.Errorf("failed to unmarshal invoice report payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := h.logger.With().
		Str("type", TaskInvoiceReport).
		Str("to", p.To).
		Str("query", p.Query).
		Logger()

	logger.Info().Msg("Processing invoice report task")

	rows, err := h.source.CollectInvoices(ctx, p.Query)
	if err != nil {
		h.metrics.ObserveReport("failed")
		logger.Error().Err(err).Msg("Failed to collect invoices for report")
		return err
	}

	report := email.NewInvoiceReport(p.Query, rows, h.now())
	if err := h.mailer.SendInvoiceReport(ctx, p.To, report); err != nil {
		h.metrics.ObserveReport("failed")
		logger.Error().Err(err).Msg("Failed to send invoice report")
		return err
	}

	h.metrics.ObserveReport("sent")
	logger.Info().Int("invoices", len(rows)).Msg("Successfully sent invoice report")

	return nil
}
