package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskInvoiceReport is the task type of an invoice report email.
	TaskInvoiceReport = "report:invoices"
)

// InvoiceReportPayload is the JSON payload of TaskInvoiceReport.
type InvoiceReportPayload struct {
	To    string `json:"to"`
	Query string `json:"query"`
}

// NewInvoiceReportTask builds a report task: up to 3 retries on the
// default queue, two minutes per attempt.
func NewInvoiceReportTask(to, query string) (*asynq.Task, error) {
	payload, err := json.Marshal(InvoiceReportPayload{
		To:    to,
		Query: query,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskInvoiceReport,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(2*time.Minute),
	), nil
}
