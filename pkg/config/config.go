package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// SecretNameEnv names the secret holding the SendGrid credential. It is read
// on every invocation rather than at startup, so it is not part of Config.
const SecretNameEnv = "SENDGRID_SECRET_NAME"

// DefaultSender is the verified sender address used for every outbound email.
const DefaultSender = "notifications@example.com"

// Secrets backends.
const (
	BackendAWS      = "aws"
	BackendPostgres = "postgres"
	BackendEnv      = "env"
)

// Email providers.
const (
	ProviderSendGrid = "sendgrid"
	ProviderStub     = "stub"
)

// Config holds process-wide settings loaded once at startup.
// Defaults are applied by Load for anything left unset.
type Config struct {
	ListenAddr     string
	LogLevel       slog.Level
	SecretsBackend string
	DatabaseURL    string
	// DatabaseAutoMigrate creates the secrets table at startup when it is missing.
	DatabaseAutoMigrate bool
	AWSRegion           string
	EmailProvider       string
	SendGridHost        string
	SenderAddress       string
	AllowedOrigins      []string
}

// Load reads configuration through getenv (usually os.Getenv) and validates it.
func Load(getenv func(string) string) (Config, error) {
	cfg := Config{
		ListenAddr:     valueOr(getenv("LISTEN_ADDR"), ":8080"),
		SecretsBackend: strings.ToLower(valueOr(getenv("SECRETS_BACKEND"), BackendAWS)),
		DatabaseURL:    getenv("DATABASE_URL"),
		AWSRegion:      getenv("AWS_REGION"),
		EmailProvider:  strings.ToLower(valueOr(getenv("EMAIL_PROVIDER"), ProviderSendGrid)),
		SendGridHost:   valueOr(getenv("SENDGRID_HOST"), "https://api.sendgrid.com"),
		SenderAddress:  valueOr(getenv("SENDER_ADDRESS"), DefaultSender),
		AllowedOrigins: splitList(valueOr(getenv("ALLOWED_ORIGINS"), "*")),
	}

	if v := getenv("DATABASE_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("invalid DATABASE_AUTO_MIGRATE: %w", err)
		}
		cfg.DatabaseAutoMigrate = b
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(valueOr(getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	switch cfg.SecretsBackend {
	case BackendAWS, BackendEnv:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when SECRETS_BACKEND is %q", BackendPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown SECRETS_BACKEND: %s", cfg.SecretsBackend)
	}

	switch cfg.EmailProvider {
	case ProviderSendGrid, ProviderStub:
	default:
		return Config{}, fmt.Errorf("unknown EMAIL_PROVIDER: %s", cfg.EmailProvider)
	}

	return cfg, nil
}

func valueOr(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
