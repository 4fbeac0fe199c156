package email

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"notification-relay/api/pkg/config"
)

// Message represents an email to be sent.
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// Result holds the outcome of a send attempt.
type Result struct {
	DeliveryStatus string
	Sent           bool
	MessageID      string
}

// Client defines the interface for sending emails.
// Implementations can be swapped between a stub (for dev/testing)
// and a real provider (SendGrid).
type Client interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

// Factory builds a client bound to one API key. The relay calls it once per
// request so no credential outlives the request that fetched it.
type Factory func(apiKey string) Client

// NewFactory returns the Factory for the provider named in cfg.
func NewFactory(cfg config.Config) Factory {
	if cfg.EmailProvider == config.ProviderStub {
		return func(string) Client { return NewStubClient() }
	}
	host := cfg.SendGridHost
	return func(apiKey string) Client { return NewSendGridClient(apiKey, host) }
}

// StubClient simulates sending emails by logging them.
type StubClient struct{}

// NewStubClient creates an email client that logs instead of sending.
func NewStubClient() *StubClient {
	return &StubClient{}
}

func (c *StubClient) Send(_ context.Context, msg Message) (*Result, error) {
	slog.Info("sending email (stub)", "to", msg.To, "from", msg.From, "subject", msg.Subject)
	return &Result{
		DeliveryStatus: "sent",
		Sent:           true,
		MessageID:      "stub-" + uuid.NewString(),
	}, nil
}
