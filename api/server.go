// Package api serves the zodiac catalogue as JSON over HTTP. It is the
// backend the TUI client and the MCP server read from.
package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/catalog"
	"github.com/qyinm/zodiactui/dto"
)

const healthMessage = "Zodiac Explorer API is running"

// Server answers the /api routes from a Dataset.
type Server struct {
	data   *Dataset
	logger *zap.Logger
	rng    catalog.RandomSource
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRandom sets the source used by the random endpoint. It must be safe
// for concurrent use.
func WithRandom(rng catalog.RandomSource) Option {
	return func(s *Server) { s.rng = rng }
}

func NewServer(data *Dataset, opts ...Option) *Server {
	s := &Server{data: data, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/zodiacs", s.handleList)
	mux.HandleFunc("GET /api/zodiacs/random", s.handleRandom)
	mux.HandleFunc("GET /api/zodiacs/{name}", s.handleGet)
	mux.HandleFunc("GET /api/elements", s.handleElements)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.logRequests(mux)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.data.Catalogue().Entries()
	s.writeJSON(w, http.StatusOK, dto.OKCount(dto.FromEntries(entries)))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c := s.data.Catalogue()
	for i := range c.Len() {
		if e := c.At(i); strings.EqualFold(e.Name(), name) {
			s.writeJSON(w, http.StatusOK, dto.OK(dto.FromEntry(e)))
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, dto.Failure(`Zodiac sign "`+name+`" not found`))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	e, err := catalog.Pick(s.data.Catalogue(), s.rng)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, dto.Failure(err.Error()))
		return
	}
	s.writeJSON(w, http.StatusOK, dto.OK(dto.FromEntry(e)))
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	elements := s.data.Catalogue().Elements()
	if elements == nil {
		elements = []string{}
	}
	slices.Sort(elements)
	s.writeJSON(w, http.StatusOK, dto.OK(elements))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, dto.Health{Status: "ok", Message: healthMessage})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}
