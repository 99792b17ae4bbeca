// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	POST /v1/layout           JSON or TOML request → JSON layout
//	POST /v1/render/{format}  request → artifact bytes (json, svg, txt)
//	GET  /v1/topics           the topic-chip demo request (?rows=N)
//	GET  /healthz             liveness and build info
//
// Request bodies are JSON unless the Content-Type names TOML. Requests may
// omit rows and constraints; the server's configured grid defaults fill them.
//
// Errors are returned as {"code": "...", "message": "..."}. INVALID_* codes
// map to 400 and NOT_FOUND to 404. Anything else is a 500.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stagger/pkg/buildinfo"
	"github.com/matzehuels/stagger/pkg/config"
	"github.com/matzehuels/stagger/pkg/errors"
	stagio "github.com/matzehuels/stagger/pkg/io"
	"github.com/matzehuels/stagger/pkg/pipeline"
	"github.com/matzehuels/stagger/pkg/render/sink"
)

const (
	// MaxBodyBytes caps the size of a request body.
	MaxBodyBytes = 1 << 20

	shutdownTimeout = 10 * time.Second
)

// Server serves layout and render requests.
type Server struct {
	Runner *pipeline.Runner
	Grid   config.GridConfig
	Addr   string
	Logger *log.Logger
}

// New creates a server. A nil logger uses log.Default().
func New(runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner: runner,
		Grid:   cfg.Grid,
		Addr:   cfg.Server.Addr,
		Logger: logger,
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		r.Get("/topics", s.handleTopics)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Run serves on s.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", s.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	l, err := s.Runner.Layout(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := sink.RenderJSON(l)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatJSON))
	_, _ = w.Write(data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	opts, err := renderOptions(r, format)
	if err != nil {
		writeError(w, err)
		return
	}
	req, err := s.decode(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	artifacts, hit, err := s.Runner.RenderWithCacheInfo(r.Context(), req, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", sink.ContentType(format))
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	rows := s.Grid.Rows
	if v := r.URL.Query().Get("rows"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "rows must be an integer"))
			return
		}
		rows = n
	}
	if err := errors.ValidateRows(rows); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stagio.Topics(rows))
}

// decode reads the request body and fills in the configured grid defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (stagio.Request, error) {
	format := stagio.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "toml") {
		format = stagio.FormatTOML
	}
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	req, err := stagio.Read(body, format)
	if err != nil {
		return stagio.Request{}, err
	}
	return req.WithDefaults(s.Grid.Rows, s.Grid.Constraints()), nil
}

// renderOptions reads render options from the query string.
func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{format}}

	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale must be a number")
		}
		opts.Scale = f
	}
	for name, dst := range map[string]*int{"cell_width": &opts.CellWidth, "cell_height": &opts.CellHeight} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer", name)
			}
			*dst = n
		}
	}
	if v := q.Get("color"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "color must be a boolean")
		}
		opts.Color = b
	}
	return opts, opts.Validate()
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeItemNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorBody{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request through the server's logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
