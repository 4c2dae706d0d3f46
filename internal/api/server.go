// Package api serves the resource API over HTTP for `qbank serve`.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"qbank/internal/resources"
)

const shutdownTimeout = 5 * time.Second

type ServerConfig struct {
	Addr string
	API  resources.API
	Log  zerolog.Logger
}

type Server struct {
	cfg    ServerConfig
	router *mux.Router
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.API == nil {
		return nil, errors.New("api: missing backend")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:7410"
	}
	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(requestID, s.accessLog)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/users/{userId}/projects", s.handleListProjects).Methods("GET")
	api.HandleFunc("/projects", s.handleCreateProject).Methods("POST")
	api.HandleFunc("/projects/{id}", s.handleGetProject).Methods("GET")
	api.HandleFunc("/projects/{id}", s.handleRenameProject).Methods("PUT")
	api.HandleFunc("/projects/{id}", s.handleDeleteProject).Methods("DELETE")

	api.HandleFunc("/projects/{projectId}/questionBanks", s.handleListQuestionBanks).Methods("GET")
	api.HandleFunc("/questionBanks", s.handleCreateQuestionBank).Methods("POST")
	api.HandleFunc("/questionBanks/{id}", s.handleGetQuestionBank).Methods("GET")
	api.HandleFunc("/questionBanks/{id}", s.handleRenameQuestionBank).Methods("PUT")
	api.HandleFunc("/questionBanks/{id}", s.handleDeleteQuestionBank).Methods("DELETE")

	api.HandleFunc("/questionBanks/{questionBankId}/questions", s.handleListQuestions).Methods("GET")
	api.HandleFunc("/questions", s.handleCreateQuestion).Methods("POST")
	api.HandleFunc("/questions/{id}", s.handleGetQuestion).Methods("GET")
	api.HandleFunc("/questions/{id}", s.handleUpdateQuestion).Methods("PUT")
	api.HandleFunc("/questions/{id}", s.handleDeleteQuestion).Methods("DELETE")
	return router
}

// Run listens on Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.cfg.Log.Info().Str("addr", ln.Addr().String()).Msg("listening")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.cfg.Log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
