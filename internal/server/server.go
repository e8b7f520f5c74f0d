// Package server exposes the webhook receiver over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Adda-Baaj/chargily-pay/internal/logger"
	"github.com/Adda-Baaj/chargily-pay/pkg/publishers"
	"github.com/Adda-Baaj/chargily-pay/pkg/webhook"
)

const defaultMaxBodyBytes = 1 << 20

// Options configures the receiver.
type Options struct {
	WebhookPath  string
	MaxBodyBytes int64
	SecretKey    string
	Verifier     *webhook.Verifier
	Store        EventStore
	Publisher    EventPublisher
	Logger       logger.Logger
	Registry     *prometheus.Registry
}

// Server routes receiver traffic.
type Server struct {
	router  *chi.Mux
	metrics *Metrics
}

// New builds the receiver router.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.SecretKey) == "" {
		return nil, errors.New("server: secret key is required to verify deliveries")
	}
	if opts.WebhookPath == "" {
		opts.WebhookPath = "/webhooks/chargily"
	}
	if !strings.HasPrefix(opts.WebhookPath, "/") {
		opts.WebhookPath = "/" + opts.WebhookPath
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Verifier == nil {
		opts.Verifier = webhook.NewVerifier()
	}
	if opts.Store == nil {
		opts.Store = noopStore{}
	}
	if opts.Publisher == nil {
		opts.Publisher = publishers.NewFanout(nil)
	}
	if opts.Logger == nil {
		opts.Logger = &logger.NopLogger{}
	}

	metrics := NewMetrics(opts.Registry)
	hook := &WebhookHandler{
		secret:   opts.SecretKey,
		verifier: opts.Verifier,
		store:    opts.Store,
		pub:      opts.Publisher,
		maxBody:  opts.MaxBodyBytes,
		log:      opts.Logger,
		metrics:  metrics,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(opts.Logger, metrics))

	r.Post(opts.WebhookPath, hook.ServeHTTP)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return &Server{router: r, metrics: metrics}, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the receiver collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Serve runs srv until ctx is cancelled and then shuts it down, allowing
// in-flight deliveries up to timeout to finish.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

type noopStore struct{}

func (noopStore) SeenEvent(string) (bool, error) { return false, nil }
func (noopStore) MarkEvent(string) error         { return nil }
