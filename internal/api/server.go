// Package api exposes the engine over HTTP and streams tick updates over a websocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/udisondev/tycoon/internal/config"
	"github.com/udisondev/tycoon/internal/engine"
)

const shutdownTimeout = 5 * time.Second

// Server is the command/query HTTP API.
type Server struct {
	cfg      config.HTTPConfig
	engine   *engine.Engine
	hub      *Hub
	limiter  *ipRateLimiter
	upgrader websocket.Upgrader
	router   *chi.Mux
}

// NewServer creates the API server. hub may be nil to disable /ws.
func NewServer(cfg config.HTTPConfig, eng *engine.Engine, hub *Hub) *Server {
	s := &Server{
		cfg:     cfg,
		engine:  eng,
		hub:     hub,
		limiter: newIPRateLimiter(cfg.CommandRate, cfg.CommandBurst),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.hub != nil {
		r.Get("/ws", s.handleWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		}

		r.Get("/state", s.handleGetState)
		r.With(s.limiter.middleware).Put("/specialization", s.handleSetSpecialization)

		r.Route("/productions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProduction)
			r.With(s.limiter.middleware).Post("/upgrade", s.handleUpgradeProduction)
		})

		r.Route("/market", func(r chi.Router) {
			r.Get("/{resource}", s.handleQuote)
			r.With(s.limiter.middleware).Post("/buy", s.handleBuy)
			r.With(s.limiter.middleware).Post("/sell", s.handleSell)
		})

		r.Route("/skills/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSkillNode)
			r.With(s.limiter.middleware).Post("/allocate", s.handleAllocateSkill)
		})

		r.Get("/effects", s.handleGetEffect)
	})

	s.router = r
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("http api listening", "addr", srv.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http api: %w", err)
		}
		slog.Info("http api stopped")
		return ctx.Err()
	}
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"durationMs", time.Since(start).Milliseconds(),
				"requestID", middleware.GetReqID(r.Context()),
				"remoteAddr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
