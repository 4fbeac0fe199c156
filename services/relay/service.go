package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxRequestBody limits the size of the send request body.
const maxRequestBody = 1 << 20 // 1MB

type contextKey int

const requestIDKey contextKey = iota

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Service exposes a Relay over HTTP.
type Service struct {
	relay *Relay
}

// NewService creates an HTTP service around r.
func NewService(r *Relay) (*Service, error) {
	if r == nil {
		return nil, fmt.Errorf("service: relay cannot be nil")
	}
	return &Service{relay: r}, nil
}

// jsonMiddleware sets the Content-Type header to application/json
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware reuses the caller's X-Request-ID or generates one,
// echoes it on the response and stores it in the request context.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

func (s *Service) LoadRoutes(router *mux.Router) {
	send := requestIDMiddleware(jsonMiddleware(http.HandlerFunc(s.HandleSend)))
	router.Handle("/send", send).Methods(http.MethodPost)
}

// HandleSend relays the request body as one email. The status is 200 on
// success and 500 for every failure, with the cause in the "error" field.
func (s *Service) HandleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slog.Debug("handling send request", "requestId", RequestID(ctx))

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	body, err := io.ReadAll(r.Body)
	resp := s.relay.handle(ctx, body, err)

	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		slog.Error("failed to write response", "requestId", RequestID(ctx), "error", err)
	}
}
