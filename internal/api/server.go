// Package api exposes the perforation pipeline over HTTP so host
// tooling can submit geometry documents and collect results without
// shelling out to the CLI.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lithoprep/maskforge/pkg/buildinfo"
	"github.com/lithoprep/maskforge/pkg/core/merge"
	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
	"github.com/lithoprep/maskforge/pkg/io"
	"github.com/lithoprep/maskforge/pkg/observability"
	"github.com/lithoprep/maskforge/pkg/pipeline"
)

// Server serves pipeline runs over HTTP.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server around the given runner.
func NewServer(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/runs", s.handleRun)
	return r
}

// runRequest is the POST /v1/runs body: a geometry document plus the
// pipeline parameters to run it with.
type runRequest struct {
	Document *io.Document     `json:"document"`
	Options  pipeline.Options `json:"options"`
}

// runResponse is the POST /v1/runs reply.
type runResponse struct {
	RunID    string             `json:"run_id"`
	Accepted int                `json:"accepted"`
	Rejected []merge.Rejected   `json:"rejected,omitempty"`
	Holes    int                `json:"holes"`
	MaxI     int                `json:"max_i"`
	MaxJ     int                `json:"max_j"`
	Cache    pipeline.CacheInfo `json:"cache"`
	Entries  []io.ResultEntry   `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode request"))
		return
	}
	if req.Document == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidDocument, "request carries no geometry document"))
		return
	}

	source, err := req.Document.Source()
	if err != nil {
		s.writeError(w, err)
		return
	}
	table := host.NewMemTable()

	opts := req.Options
	opts.Source = source
	opts.Table = table
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries, err := table.Entries(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]io.ResultEntry, len(entries))
	for i, e := range entries {
		out[i] = io.ResultEntry{
			Layer:    e.Layer,
			Name:     e.Name,
			Subtract: e.Subtract,
			Rings:    e.Region.Contours(),
		}
	}

	writeJSON(w, http.StatusOK, runResponse{
		RunID:    result.RunID,
		Accepted: result.Stats.Accepted,
		Rejected: result.Rejected,
		Holes:    result.Stats.HoleCount,
		MaxI:     result.Pattern.MaxI,
		MaxJ:     result.Pattern.MaxJ,
		Cache:    result.CacheInfo,
		Entries:  out,
	})
}

// writeError maps structured error codes to HTTP statuses: anything the
// caller can fix is a 400, everything else a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidTiling, errors.ErrCodeInvalidChip,
		errors.ErrCodeInvalidLayer, errors.ErrCodeInvalidShape,
		errors.ErrCodeInvalidDocument:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayerNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	s.logger.Error("request failed", "status", status, "err", err)
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports request lifecycle events to the HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.Host, r.URL.Path,
			ww.Status(), time.Since(start))
	})
}
