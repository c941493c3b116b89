package email

// Template names an HTML template under templates/.
type Template string

const (
	// TemplateInvoiceReport corresponds to templates/invoice_report.html
	TemplateInvoiceReport Template = "invoice_report"
)
