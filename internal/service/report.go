package service

import (
	"context"

	"github.com/deppfellow/invoice-dashboard/internal/lib/job"
	"github.com/hibiken/asynq"
)

// TaskEnqueuer is the part of *asynq.Client the report service uses.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReportService schedules invoice report emails.
type ReportService struct {
	queue TaskEnqueuer
}

func NewReportService(js *job.JobService) *ReportService {
	if js == nil {
		return &ReportService{}
	}
	return NewReportServiceWithQueue(js.Client)
}

func NewReportServiceWithQueue(queue TaskEnqueuer) *ReportService {
	return &ReportService{queue: queue}
}

// EnqueueInvoiceReport queues a report of the invoices matching query,
// to be mailed to to. It returns the queued task id.
func (r *ReportService) EnqueueInvoiceReport(ctx context.Context, to, query string) (string, error) {
	if r.queue == nil {
		return "", job.ErrQueueUnavailable
	}

	task, err := job.NewInvoiceReportTask(to, query)
	if err != nil {
		return "", err
	}

	info, err := r.queue.EnqueueContext(ctx, task)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}
