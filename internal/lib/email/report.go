package email

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/lib/currency"
	"github.com/deppfellow/invoice-dashboard/internal/model"
)

// InvoiceReportRow is one invoice as shown in the report email.
type InvoiceReportRow struct {
	Customer string
	Email    string
	Date     string
	Amount   string
	Status   string
}

// InvoiceReport is the data rendered by TemplateInvoiceReport.
type InvoiceReport struct {
	Query       string
	GeneratedAt string
	Count       int
	Total       string
	Rows        []InvoiceReportRow
}

// NewInvoiceReport formats rows for the report template.
func NewInvoiceReport(query string, rows []model.InvoiceRow, generatedAt time.Time) InvoiceReport {
	report := InvoiceReport{
		Query:       query,
		GeneratedAt: generatedAt.UTC().Format("Jan 2, 2006 15:04 MST"),
		Count:       len(rows),
		Rows:        make([]InvoiceReportRow, 0, len(rows)),
	}

	var total int64
	for _, r := range rows {
		total += r.Amount
		report.Rows = append(report.Rows, InvoiceReportRow{
			Customer: r.Name,
			Email:    r.Email,
			Date:     r.Date.Format("Jan 2, 2006"),
			Amount:   currency.Format(r.Amount),
			Status:   string(r.Status),
		})
	}
	report.Total = currency.Format(total)

	return report
}

// SendInvoiceReport mails report to to.
func (c *Client) SendInvoiceReport(ctx context.Context, to string, report InvoiceReport) error {
	subject := "Invoice report"
	if report.Query != "" {
		subject = fmt.Sprintf("Invoice report for %q", report.Query)
	}

	_, err := c.SendEmail(ctx, to, subject, TemplateInvoiceReport, report)
	return err
}
