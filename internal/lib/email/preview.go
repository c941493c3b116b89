package email

import (
	"time"

	"github.com/deppfellow/invoice-dashboard/internal/model"
)

// PreviewData holds sample template data, keyed by template, for
// rendering emails locally without a database.
var PreviewData = map[Template]any{
	TemplateInvoiceReport: NewInvoiceReport("lee", []model.InvoiceRow{
		{
			Name:   "Lee Robinson",
			Email:  "lee@robinson.com",
			Date:   time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC),
			Amount: 15795,
			Status: model.InvoiceStatusPending,
		},
		{
			Name:   "Lee Robinson",
			Email:  "lee@robinson.com",
			Date:   time.Date(2022, 11, 14, 0, 0, 0, 0, time.UTC),
			Amount: 125000,
			Status: model.InvoiceStatusPaid,
		},
	}, time.Date(2023, 7, 1, 9, 30, 0, 0, time.UTC)),
}

// Preview renders templateName with its PreviewData.
func Preview(templateName Template) (string, error) {
	return Render(templateName, PreviewData[templateName])
}
