// Package httptransport is the thin HTTP layer over the wallet facade. It
// maps requests onto facade operations without embedding business logic so
// transport concerns remain isolated.
package httptransport

import (
	"context"
	stdjson "encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmodels "walletgate/internal/auth/models"
	"walletgate/internal/platform/metrics"
	"walletgate/internal/platform/middleware"
	"walletgate/internal/transport/http/json"
	"walletgate/internal/wallet"
	dErrors "walletgate/pkg/domain-errors"
)

// WalletService is the slice of the wallet facade the transport needs.
// Session-scoped operations go through the handle returned by ResumeSession.
type WalletService interface {
	SignUp(ctx context.Context, username, password string, template authmodels.MessageTemplate, userAgent string) (string, error)
	ConfirmSignUp(ctx context.Context, token, code string) (*wallet.Session, error)
	SignIn(ctx context.Context, username, password string, template authmodels.MessageTemplate, userAgent string) (string, error)
	ConfirmSignIn(ctx context.Context, token, code, userAgent string) (*wallet.Session, error)
	ResumeSession(accessToken string) *wallet.Session
}

// Handler holds the transport's dependencies.
type Handler struct {
	wallet  WalletService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler builds the HTTP handler set.
func NewHandler(w WalletService, logger *slog.Logger, mx *metrics.Metrics) *Handler {
	return &Handler{
		wallet:  w,
		logger:  logger,
		metrics: mx,
	}
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(h.latency)

		r.Post("/auth/signup", h.handleSignUp)
		r.Post("/auth/signup/confirm", h.handleConfirmSignUp)
		r.Post("/auth/signin", h.handleSignIn)
		r.Post("/auth/signin/confirm", h.handleConfirmSignIn)
		r.Post("/auth/signout", h.handleSignOut)
		r.Put("/auth/seed", h.handleStoreSeed)

		r.Post("/credentials", h.handleSaveCredentials)
		r.Get("/credentials", h.handleListCredentials)
		r.Delete("/credentials/{id}", h.handleDeleteCredential)
		r.Delete("/credentials", h.handleDeleteAllCredentials)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	json.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// latency records per-endpoint request durations keyed by the chi route
// pattern, not the raw path, to keep cardinality bounded.
func (h *Handler) latency(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		h.metrics.EndpointLatency.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}

// bearerToken extracts the access token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", dErrors.New(dErrors.CodeUnauthenticated, "missing bearer token")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", dErrors.New(dErrors.CodeUnauthenticated, "missing bearer token")
	}
	return token, nil
}

func decode(r *http.Request, into any) error {
	if err := stdjson.NewDecoder(r.Body).Decode(into); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return nil
}
