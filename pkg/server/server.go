// Package server serves the spending views over HTTP.
//
// Pages render a level as an SVG treemap, an HTML table or a node-link
// diagram, and link every navigable item to its child level in the same
// view. The JSON API exposes the headline stack, level layouts and the
// per-session contribution:
//
//	GET  /healthz
//	GET  /api/budget
//	GET  /api/levels/                                  (?view=&width=&height=&sort=&order=)
//	GET  /api/levels/agency/{agencyID}
//	GET  /api/levels/agency/{agencyID}/account/{accountID}
//	GET  /api/contribution
//	PUT  /api/contribution
//	GET  /, /agency/{agencyID}, /agency/{agencyID}/account/{accountID}
//	GET  /metrics                                      (when metrics are enabled)
//
// Each browser gets a session cookie holding a random UUID; the session owns
// a [contribution.Store] so personalize settings never leak between users.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spendinglol/spending/pkg/budget"
	"github.com/spendinglol/spending/pkg/contribution"
	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/observability/prometheus"
	"github.com/spendinglol/spending/pkg/pipeline"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server handles HTTP requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	metrics  *prometheus.Metrics
	figure   budget.Figure
	year     int
	width    float64
	height   float64
	sessions *sessions
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithMetrics enables the /metrics endpoint and request metrics.
func WithMetrics(m *prometheus.Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithFigure sets the headline figure served by /api/budget.
func WithFigure(f budget.Figure) Option { return func(s *Server) { s.figure = f } }

// WithFiscalYear sets the fiscal year passed to the pipeline.
func WithFiscalYear(fy int) Option { return func(s *Server) { s.year = fy } }

// WithSize sets the default treemap size.
func WithSize(w, h float64) Option {
	return func(s *Server) { s.width, s.height = w, h }
}

// WithContribution sets the state new sessions start with.
func WithContribution(st contribution.State) Option {
	return func(s *Server) { s.sessions.initial = st }
}

// WithSessionLimit caps the number of live sessions. Zero or less removes
// the cap; idle sessions still expire.
func WithSessionLimit(n int) Option {
	return func(s *Server) { s.sessions.limit = n }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		logger:   log.Default(),
		figure:   budget.FY2024,
		year:     pipeline.DefaultFiscalYear,
		width:    pipeline.DefaultWidth,
		height:   pipeline.DefaultHeight,
		sessions: newSessions(contribution.State{Amount: contribution.DefaultAmount}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/budget", s.handleBudget)
		r.Get("/contribution", s.handleGetContribution)
		r.Put("/contribution", s.handlePutContribution)
		r.Route("/levels", func(r chi.Router) {
			r.Get("/", s.handleLevel)
			r.Get("/agency/{agencyID}", s.handleLevel)
			r.Get("/agency/{agencyID}/account/{accountID}", s.handleLevel)
		})
	})

	r.Get("/", s.handlePage)
	r.Get("/agency/{agencyID}", s.handlePage)
	r.Get("/agency/{agencyID}/account/{accountID}", s.handlePage)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request-id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"size", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// errorResponse is the body of every API error.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
