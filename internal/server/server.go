// Package server wires the application together: it builds the dependency
// chain (database → services → handlers), defines every route, and runs
// the HTTP server with graceful shutdown. main.go just reads config and
// calls New/Start.
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

	"github.com/sakif/boardhouse/internal/auth"
	"github.com/sakif/boardhouse/internal/handler"
	"github.com/sakif/boardhouse/internal/middleware"
	sqliteRepo "github.com/sakif/boardhouse/internal/repository/sqlite"
	"github.com/sakif/boardhouse/internal/service"
)

// Config holds server configuration, loaded from the environment by main.
type Config struct {
	Port               int
	DBPath             string
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain. Each
// layer receives only what it needs: services get repository interfaces,
// handlers get services.
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
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	// Global middleware, in order: request IDs for tracing, real client
	// IPs behind proxies, panic recovery, then our request log.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	userService := service.NewUserService(s.db, s.db, auth.NewPasswordService(), s.logger)
	boardService := service.NewBoardService(s.db, s.db, s.logger)
	panelService := service.NewPanelService(s.db, s.logger)
	ticketService := service.NewTicketService(s.db, s.logger)
	inviteService := service.NewInviteService(s.db, s.logger)

	github := auth.NewGitHubProvider(
		s.config.GitHubClientID,
		s.config.GitHubClientSecret,
		s.config.GitHubCallbackURL,
	)

	authHandler := handler.NewAuthHandler(github, userService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	boardHandler := handler.NewBoardHandler(boardService, s.logger)
	panelHandler := handler.NewPanelHandler(panelService, s.logger)
	ticketHandler := handler.NewTicketHandler(ticketService, s.logger)
	inviteHandler := handler.NewInviteHandler(inviteService, s.logger)

	// OAuth onboarding is the only unauthenticated surface.
	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAPIKey(s.db))

		r.Get("/me", userHandler.HandleMe)
		r.Put("/me/password", userHandler.HandleSetPassword)

		r.Get("/users/{id}", userHandler.HandleGet)
		r.Put("/users/{id}", userHandler.HandleUpdate)
		r.Delete("/users/{id}", userHandler.HandleDelete)
		r.Get("/users/{id}/boards", boardHandler.HandleListForUser)
		r.Get("/users/{id}/tickets", ticketHandler.HandleListByUser)
		r.Get("/users/{id}/invites", inviteHandler.HandleListForUser)
		r.Get("/users/check/handle/{handle}", userHandler.HandleCheckHandle)
		r.Get("/users/check/email/{email}", userHandler.HandleCheckEmail)
		r.Get("/users/check/verified/{email}", userHandler.HandleCheckVerified)

		r.Post("/boards", boardHandler.HandleCreate)
		r.Get("/boards/by-repo", boardHandler.HandleGetByRepoURL)
		r.Get("/boards/{id}", boardHandler.HandleGet)
		r.Put("/boards/{id}", boardHandler.HandleUpdate)
		r.Get("/boards/{id}/users", boardHandler.HandleListMembers)
		r.Post("/boards/{id}/users/{userID}", boardHandler.HandleAddMember)
		r.Get("/boards/{id}/panels", panelHandler.HandleListByBoard)
		r.Post("/boards/{id}/panels", panelHandler.HandleCreate)
		r.Get("/boards/{id}/tickets/{handle}", ticketHandler.HandleListByAssigneeOnBoard)
		r.Get("/boards/{id}/invites", inviteHandler.HandleListByBoard)
		r.Post("/boards/{id}/invites", inviteHandler.HandleInvite)
		r.Delete("/boards/{id}/invites/{handle}", inviteHandler.HandleUninvite)

		r.Get("/panels/{id}", panelHandler.HandleGet)
		r.Put("/panels/{id}", panelHandler.HandleUpdate)
		r.Get("/panels/{id}/tickets", ticketHandler.HandleListByPanel)
		r.Post("/panels/{id}/tickets", ticketHandler.HandleCreate)

		r.Get("/tickets/{id}", ticketHandler.HandleGet)
		r.Put("/tickets/{id}", ticketHandler.HandleUpdate)

		r.Get("/invites", inviteHandler.HandleListAll)
		r.Get("/invites/pending", inviteHandler.HandleListPending)
		r.Post("/invites/emailed", inviteHandler.HandleMarkEmailed)
		r.Post("/invites/delete", inviteHandler.HandleDeleteBatch)
	})
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests for up to 30s, close
// the database.
func (s *Server) Start() error {
	defer s.db.Close()

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
