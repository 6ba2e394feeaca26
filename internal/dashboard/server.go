// Package dashboard exposes a read-only HTTP view of the most recent
// Matcher run. Order placement and position lifecycle views are out of
// scope — there is nothing here but "what did the last run find".
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/output"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server serves the latest output.Report over HTTP. SetReport is called by
// whatever owns the Matcher loop each time a new run completes; concurrent
// requests always see a consistent snapshot.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	logger    *logrus.Logger
	addr      string
	authToken string

	mu     sync.RWMutex
	latest *output.Report
}

// Config configures a Server.
type Config struct {
	Addr      string
	AuthToken string
}

// NewServer builds a Server listening on cfg.Addr. A nil logger falls back
// to logrus's standard logger.
func NewServer(cfg Config, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		addr:      cfg.Addr,
		authToken: cfg.AuthToken,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	if s.authToken != "" {
		s.router.Use(s.authMiddleware)
	}

	s.router.Get("/", s.handleIndex)
	s.router.Get("/api/report", s.handleAPIReport)
	s.router.Get("/health", s.handleHealth)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		token := r.Header.Get("X-Auth-Token")
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token != s.authToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetReport replaces the snapshot served by / and /api/report.
func (s *Server) SetReport(r output.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &r
}

func (s *Server) reportSnapshot() (output.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return output.Report{}, false
	}
	return *s.latest, true
}

// Start runs the HTTP server until it errors or Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.WithField("addr", s.addr).Info("starting dashboard server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html><head><title>stratmatch — {{.Underlying}}</title></head>
<body>
<h1>{{.Underlying}}</h1>
<p>Run {{.RunID}} at {{.GeneratedAt}} — {{len .Strategies}} strategies found{{if .HitBudget}} (budget exhausted){{end}}</p>
<ul>
{{range .Strategies}}<li>{{.DefinitionName}} x{{.Multiplier}} ({{len .Legs}} legs)</li>
{{end}}
</ul>
</body></html>`))

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.reportSnapshot()
	if !ok {
		http.Error(w, "no run yet", http.StatusNotFound)
		return
	}
	if err := indexTemplate.Execute(w, report); err != nil {
		s.logger.WithError(err).Error("failed to render dashboard index")
	}
}

func (s *Server) handleAPIReport(w http.ResponseWriter, _ *http.Request) {
	report, ok := s.reportSnapshot()
	if !ok {
		http.Error(w, "no run yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, report); err != nil {
		s.logger.WithError(err).Error("failed to encode report")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, map[string]any{"status": "healthy", "timestamp": time.Now().Unix()}); err != nil {
		s.logger.WithError(err).Error("failed to encode health response")
	}
}

func writeJSON(w http.ResponseWriter, v any) error {
	_, err := fmt.Fprintf(w, "%s", mustMarshal(v))
	return err
}
