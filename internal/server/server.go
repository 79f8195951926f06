// Package server wires the application together: database, services,
// handlers, routes, and the HTTP server lifecycle. It is the composition
// root — every dependency is assembled here and nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
	"github.com/Rakabidaasta/npc-hackaton/internal/handler"
	"github.com/Rakabidaasta/npc-hackaton/internal/middleware"
	sqliteRepo "github.com/Rakabidaasta/npc-hackaton/internal/repository/sqlite"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
	"github.com/Rakabidaasta/npc-hackaton/internal/ws"
)

// Config holds server configuration, loaded once in main from the
// environment.
type Config struct {
	Port          int
	TemplateDir   string
	StaticDir     string
	DBPath        string
	SessionSecret string
}

// Server owns the router, the database connection, and the websocket hub.
// The DB is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	hub    *ws.Hub
}

// New assembles the dependency chain:
//
//	sqlite.DB → AuthService/ChatService → handlers → routes
//
// Handlers receive services, services receive repository interfaces; no
// layer reaches past its neighbour.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		hub:    ws.NewHub(logger),
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table:
//
//	GET       /               landing page
//	GET       /healthcheck    liveness JSON
//	GET       /swagger        redirect to the static API description
//	GET       /static/*       static assets
//	GET,POST  /auth/signup    signup form / create account
//	GET,POST  /auth/login     login form / establish session
//	GET       /logout         clear session            (auth)
//	GET       /profile        current user             (auth)
//	GET,POST  /chat           room view / post message (auth)
//	GET       /ws             websocket upgrade        (auth)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	renderer, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	sessions, err := auth.NewSessionService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Users(), passwords, sessions, s.logger)
	chatService := service.NewChatService(s.db.Messages(), s.db.Users(), s.logger)

	pageHandler := handler.NewPageHandler(renderer, s.logger)
	authHandler := handler.NewAuthHandler(authService, renderer, s.logger)
	chatHandler := handler.NewChatHandler(chatService, s.hub, renderer, s.logger)

	s.router.Get("/", pageHandler.HandleLanding)
	s.router.Get("/healthcheck", handler.HandleHealthcheck)
	s.router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/swagger.json", http.StatusMovedPermanently)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/signup", authHandler.HandleSignupForm)
		r.Post("/signup", authHandler.HandleSignup)
		r.Get("/login", authHandler.HandleLoginForm)
		r.Post("/login", authHandler.HandleLogin)
	})

	// Session-guarded routes. RequireAuth validates the cookie, loads the
	// user through AuthService, and redirects to /auth/login on any failure.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(sessions, authService))
		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/profile", pageHandler.HandleProfile)
		r.Get("/chat", chatHandler.HandleChatView)
		r.Post("/chat", chatHandler.HandlePostMessage)
		r.Get("/ws", chatHandler.HandleSocket)
	})

	return nil
}

// Start runs the hub and the HTTP server, blocking until a shutdown signal
// or a server error. Shutdown drains in-flight requests (30s budget) and
// then closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	go s.hub.Run()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
