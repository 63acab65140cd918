package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/events"
	"github.com/hongminglow/finance-be/internal/http/handlers"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server. The ledger API
// is mounted under cfg.APIPrefix; /health stays at the root.
func New(cfg config.Config, store storage.Store, publisher events.Publisher, logger *slog.Logger) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	protect := middleware.RequireAuth(tokens, cfg.CookieName, logger)

	api := http.NewServeMux()
	handlers.NewAuthHandler(store, tokens, handlers.CookieOptions{Name: cfg.CookieName, Secure: cfg.CookieSecure}, logger).Register(api)
	handlers.NewAccountHandler(store, publisher, logger).Register(api, protect)
	handlers.NewCategoryHandler(store, publisher, logger).Register(api, protect)
	handlers.NewTransactionHandler(store, publisher, logger).Register(api, protect)

	root := http.NewServeMux()
	handlers.NewHealthHandler(store, time.Now(), logger).Register(root)
	if cfg.APIPrefix == "" {
		root.Handle("/", api)
	} else {
		root.Handle(cfg.APIPrefix+"/", http.StripPrefix(cfg.APIPrefix, api))
	}

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(logger, root))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{inner: httpServer}
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
