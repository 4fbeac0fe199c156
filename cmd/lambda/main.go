package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"notification-relay/api/pkg/clients/email"
	"notification-relay/api/pkg/clients/secrets"
	"notification-relay/api/pkg/config"
	"notification-relay/api/services/relay"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	secretsClient, closeSecrets, err := secrets.New(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create secrets client", "backend", cfg.SecretsBackend, "error", err)
		os.Exit(1)
	}
	defer closeSecrets()

	relayer, err := relay.New(relay.Deps{
		Secrets:  secretsClient,
		NewEmail: email.NewFactory(cfg),
		Getenv:   os.Getenv,
		Sender:   cfg.SenderAddress,
	})
	if err != nil {
		slog.Error("Failed to create relay", "error", err)
		closeSecrets()
		os.Exit(1)
	}

	lambda.Start(relay.APIGatewayHandler(relayer))
}
