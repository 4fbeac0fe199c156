package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendEndpoint = "/v3/mail/send"

// ProviderError is returned when SendGrid answers with a non-2xx status.
// Message carries the provider's own description.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// SendGridClient sends plain-text email through the SendGrid v3 API.
// Each instance is bound to a single API key.
type SendGridClient struct {
	apiKey string
	host   string
}

// NewSendGridClient creates a client for apiKey. An empty host means the
// public SendGrid API.
func NewSendGridClient(apiKey, host string) *SendGridClient {
	if host == "" {
		host = "https://api.sendgrid.com"
	}
	return &SendGridClient{apiKey: apiKey, host: host}
}

func (c *SendGridClient) Send(ctx context.Context, msg Message) (*Result, error) {
	slog.Info("sending email", "provider", "sendgrid", "to", msg.To, "subject", msg.Subject)

	m := mail.NewSingleEmail(
		mail.NewEmail("", msg.From),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Body,
		"",
	)

	req := sendgrid.GetRequest(c.apiKey, sendEndpoint, c.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sendgrid request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    providerMessage(resp),
		}
	}

	return &Result{
		DeliveryStatus: "accepted",
		Sent:           true,
		MessageID:      http.Header(resp.Headers).Get("X-Message-Id"),
	}, nil
}

// providerMessage joins the messages of a SendGrid error body, falling back
// to the HTTP status text when the body carries none.
func providerMessage(resp *rest.Response) string {
	var body struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err == nil {
		var msgs []string
		for _, e := range body.Errors {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("sendgrid returned status %d", resp.StatusCode)
}
