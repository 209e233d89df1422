// Package notifications sends transactional email through the Brevo API.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"nextglide-backend/internal/contacts"
	"nextglide-backend/internal/inquiries"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

var (
	ErrNilClient    = errors.New("brevo client is nil")
	ErrNoRecipient  = errors.New("missing recipient email")
	ErrEmptyMessage = errors.New("missing subject or body")
)

type Options struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	Sandbox     bool
	// AdminEmail receives new lead notifications; empty disables them.
	AdminEmail string
	Endpoint   string
	Timeout    time.Duration
}

var (
	_ inquiries.Notifier = (*BrevoClient)(nil)
	_ contacts.Notifier  = (*BrevoClient)(nil)
)

type BrevoClient struct {
	http        *resty.Client
	endpoint    string
	senderEmail string
	senderName  string
	sandbox     bool
	adminEmail  string
}

// NewBrevoClient returns nil when the API key or sender is missing.
func NewBrevoClient(opts Options) *BrevoClient {
	if strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.SenderEmail) == "" {
		return nil
	}
	if strings.TrimSpace(opts.SenderName) == "" {
		opts.SenderName = opts.SenderEmail
	}
	if opts.Endpoint == "" {
		opts.Endpoint = defaultBrevoEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("accept", "application/json").
		SetHeader("content-type", "application/json").
		SetHeader("api-key", opts.APIKey)

	return &BrevoClient{
		http:        client,
		endpoint:    opts.Endpoint,
		senderEmail: opts.SenderEmail,
		senderName:  opts.SenderName,
		sandbox:     opts.Sandbox,
		adminEmail:  strings.TrimSpace(opts.AdminEmail),
	}
}

func (c *BrevoClient) sendHTML(ctx context.Context, toEmail, toName, subject, htmlBody string) (string, error) {
	if c == nil {
		return "", ErrNilClient
	}
	if strings.TrimSpace(toEmail) == "" {
		return "", ErrNoRecipient
	}
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(htmlBody) == "" {
		return "", ErrEmptyMessage
	}

	payload := brevoSendRequest{
		Sender: brevoSender{
			Name:  c.senderName,
			Email: c.senderEmail,
		},
		To: []brevoRecipient{
			{
				Email: toEmail,
				Name:  toName,
			},
		},
		Subject:     subject,
		HtmlContent: htmlBody,
	}
	if c.sandbox {
		payload.Headers = map[string]string{
			"X-Sib-Sandbox": "drop",
		}
	}

	var out brevoSendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("brevo request failed: %w", err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > 4096 {
			body = body[:4096]
		}
		return "", fmt.Errorf("brevo send failed: status=%d body=%s", resp.StatusCode(), body)
	}
	if strings.TrimSpace(out.MessageID) == "" {
		return "", errors.New("brevo response missing messageId")
	}
	return out.MessageID, nil
}

// sendAdmin is a no-op when no admin inbox is configured.
func (c *BrevoClient) sendAdmin(ctx context.Context, subject, htmlBody string) (string, error) {
	if c == nil {
		return "", ErrNilClient
	}
	if c.adminEmail == "" {
		return "", nil
	}
	return c.sendHTML(ctx, c.adminEmail, c.senderName, subject, htmlBody)
}

type brevoSendRequest struct {
	Sender      brevoSender       `json:"sender"`
	To          []brevoRecipient  `json:"to"`
	Subject     string            `json:"subject"`
	HtmlContent string            `json:"htmlContent,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}

type brevoSender struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type brevoRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendResponse struct {
	MessageID string `json:"messageId"`
}
