package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/scamshield-app/scamshield/internal/analysis"
	"github.com/scamshield-app/scamshield/internal/blocklist"
	"github.com/scamshield-app/scamshield/internal/config"
	"github.com/scamshield-app/scamshield/internal/observability"
	"github.com/scamshield-app/scamshield/internal/reports"
)

// Server exposes the local analysis pipeline to the web UI and mobile
// services over REST plus a websocket scan stream.
type Server struct {
	cfg        config.Config
	engine     *analysis.Analyzer
	blockStore blocklist.Store
	blockCache *blocklist.Cache
	reports    reports.Store
	metrics    *observability.Metrics
	upgrader   websocket.Upgrader
}

func New(cfg config.Config, engine *analysis.Analyzer, blockStore blocklist.Store, reportStore reports.Store, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:        cfg,
		engine:     engine,
		blockStore: blockStore,
		blockCache: blocklist.NewCache(blockStore, cfg.BlocklistRefreshInterval),
		reports:    reportStore,
		metrics:    metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly configured otherwise, so other
				// sites cannot feed a user's scan stream.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Non-browser clients often omit Origin. Allow them.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/analyze", s.handleAnalyze)
	r.Post("/v1/scrub", s.handleScrub)
	r.Post("/v1/score/phone", s.handleScorePhone)
	r.Get("/v1/stream", s.handleScanStream)

	r.Get("/v1/blocklist", s.handleListBlocklist)
	r.Post("/v1/blocklist", s.handleAddBlocklist)
	r.Delete("/v1/blocklist/{number}", s.handleRemoveBlocklist)

	r.Post("/v1/reports", s.handleCreateReport)
	r.Get("/v1/reports", s.handleListReports)

	r.Get("/v1/perf/scan", s.handlePerfScan)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	snap, err := s.blockCache.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "blocklist_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ready",
		"blocklist_size":  snap.Len(),
		"max_input_bytes": s.cfg.MaxInputBytes,
	})
}

func (s *Server) handlePerfScan(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.metrics.ScanSnapshot())
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func (s *Server) decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	limited := http.MaxBytesReader(nil, r.Body, int64(s.cfg.MaxInputBytes)+4096)
	dec := json.NewDecoder(limited)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, detail string) {
	respondJSON(w, status, errorResponse{Error: detail, Code: code})
}
