// Package web is the browser face of qbank: server-rendered project, question
// bank and question pages kept live with Datastar SSE patches.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"qbank/internal/resources"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const shutdownTimeout = 5 * time.Second

type ServerConfig struct {
	Addr string
	API  resources.API
	// UserID scopes the project list. Blank renders the missing-user placeholder.
	UserID string
	Log    zerolog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
	bc   *resourceBroadcaster
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.UserID = strings.TrimSpace(cfg.UserID)
	if cfg.API == nil {
		return nil, errors.New("web: missing backend")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7411"
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, bc: newResourceBroadcaster()}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/projects", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /events", handleListEvents(s, projectsPage))

	mux.HandleFunc("GET /projects", handleList(s, projectsPage))
	mux.HandleFunc("POST /projects", handleCreate(s, projectsPage))
	mux.HandleFunc("POST /projects/{projectId}/rename", handleRename(s, projectsPage))
	mux.HandleFunc("GET /projects/{projectId}/delete", handleDeleteConfirm(s, projectsPage))
	mux.HandleFunc("POST /projects/{projectId}/delete", handleDelete(s, projectsPage))
	mux.HandleFunc("POST /projects/{projectId}/view", s.handleViewToggle)
	mux.HandleFunc("GET /projects/{projectId}/assessments", s.handleAssessments)

	mux.HandleFunc("GET /projects/{projectId}/questionBanks", handleList(s, questionBanksPage))
	mux.HandleFunc("GET /projects/{projectId}/events", handleListEvents(s, questionBanksPage))
	mux.HandleFunc("POST /projects/{projectId}/questionBanks", handleCreate(s, questionBanksPage))
	mux.HandleFunc("POST /projects/{projectId}/questionBanks/{bankId}/rename", handleRename(s, questionBanksPage))
	mux.HandleFunc("GET /projects/{projectId}/questionBanks/{bankId}/delete", handleDeleteConfirm(s, questionBanksPage))
	mux.HandleFunc("POST /projects/{projectId}/questionBanks/{bankId}/delete", handleDelete(s, questionBanksPage))

	mux.HandleFunc("GET /projects/{projectId}/questionBanks/{bankId}", handleList(s, questionsPage))
	mux.HandleFunc("GET /projects/{projectId}/questionBanks/{bankId}/events", handleListEvents(s, questionsPage))
	mux.HandleFunc("POST /projects/{projectId}/questionBanks/{bankId}/questions", handleCreate(s, questionsPage))
	mux.HandleFunc("GET /projects/{projectId}/questionBanks/{bankId}/questions/{questionId}", s.handleQuestion)
	mux.HandleFunc("POST /projects/{projectId}/questionBanks/{bankId}/questions/{questionId}/rename", handleRename(s, questionsPage))
	mux.HandleFunc("GET /projects/{projectId}/questionBanks/{bankId}/questions/{questionId}/delete", handleDeleteConfirm(s, questionsPage))
	mux.HandleFunc("POST /projects/{projectId}/questionBanks/{bankId}/questions/{questionId}/delete", handleDelete(s, questionsPage))
	return s.accessLog(mux)
}

// Run listens on Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. Open event streams end with ctx.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s.cfg.Log.Info().Str("addr", ln.Addr().String()).Msg("web listening")

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, status int, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		s.cfg.Log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, html)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		ev := s.cfg.Log.Debug()
		if rec.status >= http.StatusInternalServerError {
			ev = s.cfg.Log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("web request")
	})
}
