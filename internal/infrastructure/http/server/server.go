package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"tfi/obras-sociales-api/internal/infrastructure/config"
	"tfi/obras-sociales-api/internal/infrastructure/http/middleware"
)

const defaultShutdownTimeout = 30 * time.Second

// ObraSocialRoutes is the HTTP surface of the obra social directory.
type ObraSocialRoutes interface {
	Index(w http.ResponseWriter, r *http.Request)
	ListObrasSociales(w http.ResponseWriter, r *http.Request)
	VerificarAfiliacion(w http.ResponseWriter, r *http.Request)
}

// Server exposes the obra social directory over HTTP.
type Server struct {
	log             *slog.Logger
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// Options holds the server dependencies.
type Options struct {
	Config         config.AppConfig
	Logger         *slog.Logger
	HealthHandler  http.Handler
	ObrasSociales  ObraSocialRoutes
	MetricsHandler http.Handler
	HTTPObserver   middleware.HTTPObserver
}

// New builds the router and the underlying http.Server.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.HealthHandler == nil {
		return nil, errors.New("health handler is required")
	}
	if opts.ObrasSociales == nil {
		return nil, errors.New("obras sociales handler is required")
	}

	shutdownTimeout := opts.Config.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	srv := &http.Server{
		Addr:         opts.Config.HTTP.Address(),
		Handler:      newRouter(opts),
		ReadTimeout:  opts.Config.HTTP.ReadTimeout,
		WriteTimeout: opts.Config.HTTP.WriteTimeout,
		IdleTimeout:  opts.Config.HTTP.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(opts.Logger.Handler(), slog.LevelError),
	}

	return &Server{
		log:             opts.Logger,
		httpServer:      srv,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func newRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.HTTPObserver != nil {
		r.Use(middleware.Metrics(opts.HTTPObserver))
	}
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.Config.CORS.AllowedOrigins, opts.Config.CORS.MaxAge))

	r.Method(http.MethodGet, "/health", opts.HealthHandler)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Get("/", opts.ObrasSociales.Index)
	r.Route("/api/obras-sociales", func(r chi.Router) {
		r.Get("/", opts.ObrasSociales.ListObrasSociales)
		r.Get("/verificar", opts.ObrasSociales.VerificarAfiliacion)
	})

	return r
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down HTTP server", "timeout", s.shutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}
