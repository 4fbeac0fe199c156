package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"notification-relay/api/pkg/clients/email"
	"notification-relay/api/pkg/clients/secrets"
	"notification-relay/api/pkg/config"
)

const successMessage = "Email sent successfully"

// EmailRequest is the inbound payload. Fields are not validated here; a
// missing recipient or subject is left for the provider to reject.
type EmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Response is the status code and JSON body returned to the caller.
type Response struct {
	StatusCode int
	Body       []byte
}

// Deps holds the collaborators a Relay needs.
type Deps struct {
	Secrets  secrets.Client
	NewEmail email.Factory
	// Getenv resolves the secret reference on every invocation.
	Getenv func(string) string
	// Sender is the fixed From address; empty means config.DefaultSender.
	Sender string
}

// Relay fetches the provider credential and forwards one email per call.
// It holds no per-request state and is safe for concurrent use.
type Relay struct {
	secrets  secrets.Client
	newEmail email.Factory
	getenv   func(string) string
	sender   string
}

// New creates a Relay from deps.
func New(deps Deps) (*Relay, error) {
	if deps.Secrets == nil {
		return nil, fmt.Errorf("relay: secrets client cannot be nil")
	}
	if deps.NewEmail == nil {
		return nil, fmt.Errorf("relay: email factory cannot be nil")
	}
	if deps.Getenv == nil {
		return nil, fmt.Errorf("relay: getenv cannot be nil")
	}
	sender := deps.Sender
	if sender == "" {
		sender = config.DefaultSender
	}
	return &Relay{
		secrets:  deps.Secrets,
		newEmail: deps.NewEmail,
		getenv:   deps.Getenv,
		sender:   sender,
	}, nil
}

// Send runs the pipeline for one request body: resolve the secret reference,
// fetch and parse the credential, decode the body, and send. The email client
// is built from the fetched key for this call only.
func (r *Relay) Send(ctx context.Context, body []byte) error {
	return r.send(ctx, body, nil)
}

// send is Send for callers that may have failed to read the body. A non-nil
// bodyErr is reported where the body would be decoded, so a configuration
// error still takes precedence over it.
func (r *Relay) send(ctx context.Context, body []byte, bodyErr error) error {
	rid := RequestID(ctx)

	secretName := r.getenv(config.SecretNameEnv)
	if secretName == "" {
		return &ConfigurationError{Msg: config.SecretNameEnv + " environment variable is not set"}
	}
	slog.Debug("using secret", "secret", secretName, "requestId", rid)

	raw, err := r.secrets.GetSecret(ctx, secretName)
	if err != nil {
		return &ConfigurationError{Err: err}
	}
	if raw == "" {
		return &ConfigurationError{Msg: "Secret is empty or not found"}
	}

	payload := ParseSecretPayload(raw)
	apiKey := payload.APIKey()
	if apiKey == "" {
		return &ConfigurationError{Msg: "SendGrid API Key not found in secret"}
	}
	slog.Debug("resolved api key", "format", payload.Format.String(), "key", maskKey(apiKey), "requestId", rid)

	client := r.newEmail(apiKey)

	if bodyErr != nil {
		return &RequestParseError{Err: bodyErr}
	}
	var req EmailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return &RequestParseError{Err: err}
	}

	result, err := client.Send(ctx, email.Message{
		To:      req.To,
		From:    r.sender,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		return &ProviderError{Err: err}
	}

	if result == nil {
		result = &email.Result{}
	}
	slog.Info("email sent",
		"to", req.To,
		"messageId", result.MessageID,
		"deliveryStatus", result.DeliveryStatus,
		"sent", result.Sent,
		"requestId", rid,
	)
	return nil
}

// Handle runs Send and maps its outcome to a Response. It never fails: every
// error becomes a 500 carrying the error's message.
func (r *Relay) Handle(ctx context.Context, body []byte) Response {
	return r.handle(ctx, body, nil)
}

func (r *Relay) handle(ctx context.Context, body []byte, bodyErr error) Response {
	return r.respond(ctx, r.send(ctx, body, bodyErr))
}

// respond is the single place an outcome becomes a status code and body.
func (r *Relay) respond(ctx context.Context, err error) Response {
	if err == nil {
		return jsonResponse(http.StatusOK, map[string]string{"message": successMessage})
	}
	slog.Error("error sending email", "kind", errorKind(err), "requestId", RequestID(ctx), "error", err)
	return jsonResponse(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func jsonResponse(status int, v map[string]string) Response {
	// A map of strings always marshals.
	body, _ := json.Marshal(v)
	return Response{StatusCode: status, Body: body}
}

func errorKind(err error) string {
	var (
		cfgErr   *ConfigurationError
		parseErr *RequestParseError
		provErr  *ProviderError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &parseErr):
		return "request"
	case errors.As(err, &provErr):
		return "provider"
	default:
		return "internal"
	}
}
