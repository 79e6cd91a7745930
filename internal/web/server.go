// Package web provides the HTTP server and handlers for the spreadsheet converter.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/sheetcsv/internal/config"
	"github.com/JonMunkholm/sheetcsv/internal/core"
	"github.com/JonMunkholm/sheetcsv/internal/logging"
	"github.com/JonMunkholm/sheetcsv/internal/web/middleware"
)

// Server is the HTTP server for the converter.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
	limiter *middleware.RateLimiter
}

// NewServer creates a new Server instance.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	}

	// Security hardening
	s.router.Use(s.securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.limiter.OnLimit = func(w http.ResponseWriter, r *http.Request) {
			s.respondError(w, r, errRateLimited)
		}
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.Post("/upload", s.handleUploadPage)
	s.router.Route("/s/{sessionID}", func(r chi.Router) {
		r.Get("/", s.handleWorkbook)
		r.Post("/export", s.handleExportPage)
		r.Post("/discard", s.handleDiscardPage)
	})

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/defaults", s.handleDefaults)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/sheets", s.handleListSheets)
			r.Get("/preview", s.handlePreview)
			r.Post("/export", s.handleExport)
			r.Delete("/", s.handleDeleteSession)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// RunCleanup drops idle rate limiter state until ctx is cancelled.
func (s *Server) RunCleanup(ctx context.Context) {
	if s.limiter == nil {
		return
	}
	s.limiter.Run(ctx)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		// Inline styles and the sheet selector's onchange handler live in the page.
		if s.cfg.Security.EnableCSP {
			w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'")
		}

		next.ServeHTTP(w, r)
	})
}

// healthResponse is returned by /healthz.
type healthResponse struct {
	Status      string             `json:"status"`
	Time        time.Time          `json:"time"`
	Conversions core.LimiterStatus `json:"conversions"`
	Sessions    int                `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:      "ok",
		Time:        time.Now().UTC(),
		Conversions: st.Conversions,
		Sessions:    st.Sessions,
	})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
