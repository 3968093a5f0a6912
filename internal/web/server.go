package web

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/justestif/retailtunes/internal/clustering"
	"github.com/justestif/retailtunes/internal/config"
	"github.com/justestif/retailtunes/internal/dashboard"
	"github.com/justestif/retailtunes/internal/engine"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	SessionTTL  time.Duration
	Debug       bool
	TemplatesFS fs.FS
	StaticFS    fs.FS

	// DashboardOptions are applied to every dashboard the server mounts.
	DashboardOptions []dashboard.Option
}

// Server is the HTTP server for the web application.
type Server struct {
	router    chi.Router
	server    *http.Server
	templates *Templates
	sessions  *SessionStore
	handlers  *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = config.DefaultAddr
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = config.DefaultSessionTTL
	}

	// Create template manager
	templates, err := NewTemplates(cfg.TemplatesFS)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	// The catalog and its mood groups are fixed for the life of the server
	eng := engine.New(engine.DefaultCatalog())
	groups, _ := clustering.Cluster(eng.Tracks(), clustering.DefaultMoodConfig())

	sessions := NewSessionStore(cfg.SessionTTL, dashboardFactory(cfg))

	handlers := NewHandlers(sessions, templates, eng, groups)

	// Create router
	router := chi.NewRouter()

	s := &Server{
		router:    router,
		templates: templates,
		sessions:  sessions,
		handlers:  handlers,
	}

	// Configure middleware
	s.setupMiddleware()

	// Configure routes
	s.setupRoutes(cfg.StaticFS)

	// Create HTTP server
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// dashboardFactory mounts one dashboard per session. In debug mode every
// state change is logged.
func dashboardFactory(cfg ServerConfig) func(id string) *dashboard.Dashboard {
	return func(id string) *dashboard.Dashboard {
		d := dashboard.New(cfg.DashboardOptions...)
		if cfg.Debug {
			short := id
			if len(short) > 8 {
				short = short[:8]
			}
			d.OnUpdate(func(s dashboard.ViewState) {
				log.Printf("session %s: playing=%t track=%q volume=%d analyzing=%t",
					short, s.IsPlaying, s.CurrentTrack, s.Volume, s.IsAnalyzing)
			})
		}
		return d
	}
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(staticFS fs.FS) {
	// Static files
	if staticFS != nil {
		fileServer := http.FileServer(http.FS(staticFS))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	// Pages
	s.router.Get("/", s.handlers.Dashboard)
	s.router.Get("/engine", s.handlers.Engine)

	// Dashboard actions
	s.router.Post("/playback/toggle", s.handlers.TogglePlayback)
	s.router.Post("/volume", s.handlers.AdjustVolume)
	s.router.Post("/tracks/select", s.handlers.SelectTrack)
	s.router.Post("/recommendations/refresh", s.handlers.RefreshRecommendations)
	s.router.Post("/playlists", s.handlers.CreatePlaylist)
	s.router.Post("/session/reset", s.handlers.ResetSession)

	// API
	s.router.Get("/api/state", s.handlers.State)
	s.router.Get("/health", s.handlers.Health)
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server and unmounts every dashboard.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.sessions.Close()
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	// Channel to receive shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Expired sessions are swept hourly
	sweep := time.NewTicker(time.Hour)
	defer sweep.Stop()

loop:
	for {
		select {
		case err := <-errCh:
			s.sessions.Close()
			return err
		case <-sweep.C:
			if n := s.sessions.DeleteExpired(); n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		case <-stop:
			log.Println("Shutting down server...")
			break loop
		}
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
