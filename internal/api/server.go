// Package api exposes the console's HTTP surface: analytics reports,
// campaign and contact management, and the auth endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ignite/campaign-console/internal/analytics"
	"github.com/ignite/campaign-console/internal/auth"
	"github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/domain"
	"github.com/ignite/campaign-console/internal/pkg/httputil"
	"github.com/ignite/campaign-console/internal/pkg/logger"
	"github.com/ignite/campaign-console/internal/service/campaign"
	"github.com/ignite/campaign-console/internal/service/contact"
)

// TestSender sends a single campaign preview. Implemented by esp.Sender;
// nil when SES is not configured.
type TestSender interface {
	SendTest(ctx context.Context, c *domain.Campaign, recipient string) (string, error)
}

// Healthchecker reports upstream backend reachability.
type Healthchecker interface {
	Healthcheck(ctx context.Context) error
}

// Handlers holds the services the HTTP layer fronts.
type Handlers struct {
	cfg       config.AnalyticsConfig
	fetcher   *analytics.Fetcher
	refresh   analytics.RefreshSource
	campaigns *campaign.Service
	contacts  *contact.Service
	sender    TestSender
	backend   Healthchecker
	log       *logger.Logger

	// One report view per user, so superseding and the realtime
	// subscription work across requests. Idle entries are evicted.
	viewsMu sync.Mutex
	views   map[string]*viewEntry
}

// NewHandlers wires the handler set. refresh, sender, and backend may be nil.
func NewHandlers(
	cfg config.AnalyticsConfig,
	fetcher *analytics.Fetcher,
	refresh analytics.RefreshSource,
	campaigns *campaign.Service,
	contacts *contact.Service,
	sender TestSender,
	backend Healthchecker,
) *Handlers {
	return &Handlers{
		cfg:       cfg,
		fetcher:   fetcher,
		refresh:   refresh,
		campaigns: campaigns,
		contacts:  contacts,
		sender:    sender,
		backend:   backend,
		log:       logger.With("api"),
		views:     make(map[string]*viewEntry),
	}
}

// Server owns the HTTP listener.
type Server struct {
	cfg    config.ServerConfig
	server *http.Server
	log    *logger.Logger
}

// NewServer creates an HTTP server over the given routes.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.GetHost(), cfg.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: logger.With("server"),
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// HealthCheck reports liveness plus backend reachability.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if h.backend != nil {
		if err := h.backend.Healthcheck(r.Context()); err != nil {
			status["backend"] = "unreachable"
		} else {
			status["backend"] = "ok"
		}
	}
	httputil.OK(w, status)
}

// currentUserID resolves the authenticated user for a request.
func currentUserID(r *http.Request) string {
	if s := auth.FromContext(r.Context()); s != nil {
		return s.UserID
	}
	return ""
}
