// Package webserver exposes the dashboard HTTP API: live market snapshots,
// ad-hoc question answering, cached company summaries, and run history.
package webserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/finsight-ai/finsight/internal/answer"
	"github.com/finsight-ai/finsight/internal/catalog"
	"github.com/finsight-ai/finsight/internal/marketdata"
	"github.com/finsight-ai/finsight/internal/router"
	"github.com/finsight-ai/finsight/internal/storage"
)

// Version is set at build time or defaults to dev.
var Version = "0.1.0-dev"

// Server holds the HTTP handler methods for the dashboard API.
type Server struct {
	catalog    *catalog.Catalog
	router     *router.Router
	generator  *answer.Generator
	market     marketdata.Service
	summarizer *Summarizer
	store      *storage.Store

	defaultSymbol string
	logger        *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the run-history endpoint.
func WithStore(store *storage.Store) Option {
	return func(s *Server) { s.store = store }
}

// WithSummarizer enables the cached company-summary endpoint.
func WithSummarizer(sum *Summarizer) Option {
	return func(s *Server) { s.summarizer = sum }
}

// WithDefaultSymbol sets the symbol used when a request omits one.
func WithDefaultSymbol(symbol string) Option {
	return func(s *Server) { s.defaultSymbol = symbol }
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server over the routing and data-fetch pipeline.
func New(cat *catalog.Catalog, rt *router.Router, gen *answer.Generator, market marketdata.Service, opts ...Option) *Server {
	s := &Server{
		catalog:       cat,
		router:        rt,
		generator:     gen,
		market:        market,
		defaultSymbol: "AAPL",
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes builds the ServeMux with every endpoint registered.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/tools", s.handleTools)
	mux.HandleFunc("GET /api/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	return mux
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("dashboard API listening", "addr", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// handleTools lists the catalog so a frontend can render the tool menu.
func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	names := s.catalog.Names()
	tools := make([]catalog.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool, _ := s.catalog.Lookup(name)
		tools = append(tools, *tool)
	}
	writeJSON(w, http.StatusOK, tools)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	symbol := s.symbolParam(r)
	snapshot := marketdata.FetchSnapshot(r.Context(), s.market, symbol)
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	symbol := req.Symbol
	if symbol == "" {
		symbol = s.defaultSymbol
	}

	started := time.Now()
	decision, err := s.router.Route(r.Context(), req.Question)
	if err != nil {
		var parseErr *router.ParseError
		switch {
		case errors.As(err, &parseErr), errors.Is(err, router.ErrUnknownTool):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusBadGateway, fmt.Sprintf("routing failed: %v", err))
		}
		return
	}

	args := s.catalog.FillDefaults(decision.Tool, decision.Arguments)
	result := marketdata.Call(r.Context(), s.market, symbol, decision.Tool, args)
	if !result.OK {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("data fetch failed: %v", result.Err))
		return
	}

	text, err := s.generator.Generate(r.Context(), req.Question, decision.Tool, result.Data)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("answer generation failed: %v", err))
		return
	}

	s.logger.Debug("answered question",
		"tool", decision.Tool, "symbol", symbol, "latency", time.Since(started))
	writeJSON(w, http.StatusOK, AskResponse{
		Symbol:    symbol,
		Tool:      decision.Tool,
		Arguments: args,
		Answer:    text,
		LatencyMs: time.Since(started).Milliseconds(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.summarizer == nil {
		writeError(w, http.StatusNotImplemented, "summary endpoint is not configured")
		return
	}
	resp, err := s.summarizer.Summarize(r.Context(), s.symbolParam(r))
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotImplemented, "run history is not configured")
		return
	}
	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) symbolParam(r *http.Request) string {
	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		return strings.ToUpper(symbol)
	}
	return s.defaultSymbol
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
