package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

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

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(logHandler))

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
		return
	}

	relayService, err := relay.NewService(relayer)
	if err != nil {
		slog.Error("Failed to create relay service", "error", err)
		return
	}

	// setup router
	router := mux.NewRouter()
	relayService.LoadRoutes(router)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
	)(router)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(corsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "addr", cfg.ListenAddr, "secretsBackend", cfg.SecretsBackend, "emailProvider", cfg.EmailProvider)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("Server error", "error", err)

	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Could not stop server gracefully", "error", err)
			srv.Close()
		}
	}
}
