// Package http serves the tracker's pages and JSON API.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"tracker/internal/core"
	"tracker/internal/dashboard"
	"tracker/internal/kv"
	"tracker/internal/ledger"
	"tracker/internal/log"
	"tracker/internal/middleware/ratelimit"
	"tracker/internal/middleware/security"
	"tracker/internal/middleware/trace"
	appweb "tracker/web"
)

// Ledger is the transaction store the handlers read from and write to.
// *ledger.Store implements it.
type Ledger interface {
	Snapshot() ledger.Snapshot
	Add(ctx context.Context, d core.Draft) (core.Transaction, error)
	Remove(ctx context.Context, id string) (bool, error)
}

// DashboardViewer returns the current dashboard. *dashboard.Service
// implements it.
type DashboardViewer interface {
	View() dashboard.View
}

// Deps are the collaborators a Server needs. Ready may be nil.
type Deps struct {
	Ledger    Ledger
	Dashboard DashboardViewer
	Ready     kv.Pinger
	Logger    *log.Logger
	Now       func() time.Time
}

type Options struct {
	Addr               string
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	pages    map[string]*template.Template
	ledger   Ledger
	dash     DashboardViewer
	ready    kv.Pinger
	logger   *log.Logger
	now      func() time.Time
	started  time.Time
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer parses the embedded templates and configures routes, returning a
// ready-to-run server.
func NewServer(opts Options, deps Deps) (*Server, error) {
	if deps.Ledger == nil || deps.Dashboard == nil {
		return nil, fmt.Errorf("ledger and dashboard are required")
	}
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	pages, err := loadTemplates(appweb.TemplatesFS)
	if err != nil {
		return nil, err
	}

	limitCfg := ratelimit.DefaultConfig()
	limitCfg.RequestsPerMinute = opts.RateLimitPerMinute

	s := &Server{
		Server: http.Server{
			Addr:           opts.Addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
		pages:    pages,
		ledger:   deps.Ledger,
		dash:     deps.Dashboard,
		ready:    deps.Ready,
		logger:   deps.Logger.WithComponent(log.ComponentHTTP),
		now:      deps.Now,
		started:  deps.Now(),
		limiter:  ratelimit.NewLimiter(limitCfg),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(deps.Logger, s.detector.ExtractClientIP)
	s.Handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracer.Middleware)
	r.Use(s.detector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, s.handleRateLimited))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/",
			security.StaticAssetMiddleware(3600)(http.FileServer(http.FS(sub)))))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Get("/", s.handleRoot)
	r.Get("/dashboard", s.handleDashboard)
	r.Get("/transactions/new", s.handleNewTransaction)
	r.Post("/transactions", s.handleCreateTransaction)
	r.Post("/transactions/{id}/delete", s.handleDeleteTransaction)
	r.Get("/history", s.handleHistory)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleAPIListTransactions)
		r.Post("/transactions", s.handleAPICreateTransaction)
		r.Get("/transactions/{id}", s.handleAPIGetTransaction)
		r.Delete("/transactions/{id}", s.handleAPIDeleteTransaction)
		r.Get("/dashboard", s.handleAPIDashboard)
	})

	return r
}

// loadTemplates pairs layout.html with each page template. Every page defines
// "content", so each gets its own template set.
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	base, err := template.New("layout.html").ParseFS(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"dashboard", "form", "history"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		t, err := clone.ParseFS(fsys, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// Shutdown gracefully shuts down the server and the rate limiter cleanup
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
