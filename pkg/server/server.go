// Package server exposes layout persistence and headless layout over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/layouts          list stored layouts
//	GET    /api/layouts/{id}     load a layout
//	PUT    /api/layouts/{id}     save a layout (validated first)
//	DELETE /api/layouts/{id}     delete a layout
//	POST   /api/apply            apply a layout to a hierarchy
//
// Errors are returned as {"code": ..., "message": ...} with a status
// derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/nodevis/pkg/buildinfo"
	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
	"github.com/matzehuels/nodevis/pkg/store"
)

const (
	maxBodySize  = 8 << 20
	applyTimeout = 30 * time.Second
	applyTTL     = time.Hour
)

// Options configures a [Server].
type Options struct {
	Store store.Store
	// Viewport is used by apply requests that name no viewport.
	Viewport   layout.Size
	Simulation force.Options
	Manager    manager.Options
	// Cache holds apply results. Nil disables caching.
	Cache  cache.Cache
	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	opts   Options
	logger *log.Logger
	keyer  cache.Keyer
	router chi.Router
}

// New returns a server. A nil store disables the layout routes.
func New(opts Options) *Server {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		opts.Viewport = layout.Size{Width: 1200, Height: 800}
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{opts: opts, logger: logger, keyer: cache.NewDefaultKeyer()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.listLayouts)
			r.Get("/{id}", s.getLayout)
			r.Put("/{id}", s.putLayout)
			r.Delete("/{id}", s.deleteLayout)
		})
		r.Post("/apply", s.apply)
	})
	return r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		id, _ := r.Context().Value(requestIDKey{}).(string)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start), "id", id)
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusOf(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidCoordinates, errors.ErrCodeInvalidOption, errors.ErrCodeInvalidHierarchy:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodePersistence, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, w http.ResponseWriter, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}
