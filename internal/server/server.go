// Package server implements the borelog render service: a small JSON API
// that accepts borehole record tables and responds with rendered drawings.
//
// The service reuses the same pipeline as the CLI, so a drawing produced
// over HTTP is byte-for-byte what the draw command would write. Rendered
// artifacts are cached through the runner's cache; an optional Archive
// keeps render history.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/loader"
	"github.com/borelog/borelog/pkg/observability"
	"github.com/borelog/borelog/pkg/palette"
	"github.com/borelog/borelog/pkg/pipeline"
	"github.com/borelog/borelog/pkg/render"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	defaultRendersLimit = 20
	maxRendersLimit     = 100
)

// contentTypes maps output formats onto response media types.
var contentTypes = map[render.Format]string{
	render.FormatDXF:  "application/dxf",
	render.FormatSVG:  "image/svg+xml",
	render.FormatPNG:  "image/png",
	render.FormatJSON: "application/json",
}

// Server owns the HTTP surface of the render service.
type Server struct {
	runner  *pipeline.Runner
	archive Archive
	logger  *log.Logger
}

// New creates a server around the given runner. archive may be nil, in
// which case no history is kept and the renders endpoint is not mounted.
func New(runner *pipeline.Runner, archive Archive, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:  runner,
		archive: archive,
		logger:  logger,
	}
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/palettes", s.handlePalettes)
		r.Post("/drawings", s.handleDrawing)
		if s.archive != nil {
			r.Get("/renders", s.handleRenders)
		}
	})
	return r
}

// Run serves the API on addr until ctx is canceled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("render service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down render service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// instrument reports request and response events to the registered HTTP
// hooks. Sits before Recoverer so recovered panics are reported as the 500
// they produce.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// paletteEntry is one embedded palette in the listing response.
type paletteEntry struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func (s *Server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	all := palette.All()
	out := make([]paletteEntry, 0, len(all))
	for _, p := range all {
		colors := make([]string, len(p.Colors))
		for i, c := range p.Colors {
			colors[i] = c.Hex()
		}
		out = append(out, paletteEntry{Name: p.Name, Colors: colors})
	}
	s.respondJSON(w, http.StatusOK, out)
}

// drawingRequest is the body of POST /v1/drawings. Records stays raw so the
// loader can preserve column order while decoding. Name optionally labels
// the render in the archive.
type drawingRequest struct {
	Name    string           `json:"name,omitempty"`
	Records json.RawMessage  `json:"records"`
	Options pipeline.Options `json:"options"`
}

func (s *Server) handleDrawing(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	parsed, err := render.ParseFormat(format)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req drawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if len(req.Records) == 0 {
		s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "request body needs a records array"))
		return
	}
	if req.Name != "" {
		if err := errors.ValidateDrawingName(req.Name); err != nil {
			s.respondError(w, err)
			return
		}
	}

	table, err := loader.FromJSONBytes(req.Records)
	if err != nil {
		s.respondError(w, err)
		return
	}

	opts := req.Options
	opts.Formats = []string{string(parsed)}
	opts.Logger = s.logger

	started := time.Now()
	result, err := s.runner.Execute(r.Context(), table, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	data := result.Artifacts[string(parsed)]
	s.archiveRender(r.Context(), req.Name, result, string(parsed), len(data), time.Since(started))

	w.Header().Set("Content-Type", contentTypes[parsed])
	w.Header().Set("X-Borelog-Hash", result.LayersHash)
	w.Header().Set("X-Borelog-Dropped", strconv.Itoa(result.Dropped))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleRenders(w http.ResponseWriter, r *http.Request) {
	limit := defaultRendersLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxRendersLimit)
	}

	entries, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.respondError(w, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "reading render archive"))
		return
	}
	if entries == nil {
		entries = []RenderRecord{}
	}
	s.respondJSON(w, http.StatusOK, entries)
}

// archiveRender stores a render record when an archive is configured.
// Archive failures are logged and absorbed: the drawing already rendered,
// and losing a history row must not fail the request.
func (s *Server) archiveRender(ctx context.Context, name string, result *pipeline.Result, format string, size int, took time.Duration) {
	if s.archive == nil {
		return
	}
	rec := RenderRecord{
		Name:          name,
		Hash:          result.LayersHash,
		Format:        format,
		ByteSize:      size,
		LayerCount:    result.Stats.LayerCount,
		BoreholeCount: result.Stats.BoreholeCount,
		MaterialCount: len(result.Materials),
		Dropped:       result.Dropped,
		DurationMS:    took.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.archive.Record(ctx, rec); err != nil {
		s.logger.Warn("archiving render failed", "err", err)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "err", err)
	}
}

// errorBody is the JSON envelope for failed requests.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps error codes onto HTTP statuses: input problems are the
// client's fault, store trouble and anything unrecognized is ours.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSchema, errors.ErrCodeInvalidColorConfig,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSheet, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnknownPalette:
		status = http.StatusBadRequest
	case errors.ErrCodeFileNotFound, errors.ErrCodeRenderNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.respondJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}
