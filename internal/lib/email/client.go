// Package email sends transactional email through Resend.
//
// Bodies are rendered from HTML templates embedded in the binary.
package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/deppfellow/invoice-dashboard/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Sender is the part of the Resend emails service the client uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Client struct {
	sender Sender
	from   string
	logger *zerolog.Logger
}

// NewClient creates a Resend backed client.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return NewClientWithSender(resend.NewClient(cfg.Integration.ResendAPIKey).Emails, cfg.Integration.ReportSender, logger)
}

func NewClientWithSender(sender Sender, from string, logger *zerolog.Logger) *Client {
	return &Client{
		sender: sender,
		from:   from,
		logger: logger,
	}
}

// Render executes the named template into an HTML string.
func Render(templateName Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(templateName)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}
	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single
// recipient. It returns the provider's message id.
func (c *Client) SendEmail(ctx context.Context, to, subject string, templateName Template, data any) (string, error) {
	html, err := Render(templateName, data)
	if err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", "Invoice Dashboard", c.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.sender.SendWithContext(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("message_id", sent.Id).
		Msg("email accepted by provider")

	return sent.Id, nil
}
