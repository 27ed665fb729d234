// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
	"github.com/sightlinehq/sightline-go/internal/infrastructure/email/templates"
	"github.com/sightlinehq/sightline-go/pkg/config"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendDigestEmail(toEmail string, digest templates.DigestEmailProps) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	apiKey := config.ResendAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromEmail: config.DigestFromEmail,
		fromName:  config.DigestFromName,
	}, nil
}

// SendDigestEmail composes and sends the periodic analytics digest.
func (c *ResendClient) SendDigestEmail(toEmail string, digest templates.DigestEmailProps) error {
	subject := fmt.Sprintf("Sightline digest: %s", digest.PeriodLabel)

	content := templates.GetDigestEmailContent(digest)

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Preheader: subject,
		Content:   content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    htmlContent,
	}

	_, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send digest email via Resend: %w", err)
	}

	return nil
}
