package httpapi

import (
	"net/http"
	"time"

	"github.com/scamshield-app/scamshield/internal/analysis"
	"github.com/scamshield-app/scamshield/internal/observability"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

type analyzeRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
	Sender  string `json:"sender,omitempty"`
}

type scrubRequest struct {
	Text string `json:"text"`
}

type phoneScoreRequest struct {
	Number string `json:"number"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	channel, err := scoring.ParseChannel(req.Channel)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_channel", err.Error())
		return
	}
	if len(req.Text) > s.cfg.MaxInputBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "input_too_large", "text exceeds maximum length")
		return
	}

	res := s.runAnalysis(req.Text, channel, req.Sender)
	respondJSON(w, http.StatusOK, res)
}

// runAnalysis is the shared REST/stream path: run the pipeline, record
// metrics, return the combined result. A blocked result is a normal
// response, not an HTTP error.
func (s *Server) runAnalysis(text string, channel scoring.Channel, sender string) analysis.Result {
	start := time.Now()
	res := s.engine.AnalyzeWithSender(text, channel, sender)
	s.metrics.ObserveScanStage(observability.StageTotal, time.Since(start))

	for _, m := range res.FoundPII {
		s.metrics.PIIDetections.WithLabelValues(string(m.Category)).Inc()
	}
	outcome := "blocked"
	if !res.Blocked {
		outcome = string(res.Assessment.Label)
	} else {
		s.metrics.HardBlocks.Inc()
	}
	s.metrics.Analyses.WithLabelValues(string(channel), outcome).Inc()
	s.metrics.ObserveScanOutcome(outcome)
	return res
}

func (s *Server) handleScrub(w http.ResponseWriter, r *http.Request) {
	var req scrubRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(req.Text) > s.cfg.MaxInputBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "input_too_large", "text exceeds maximum length")
		return
	}

	start := time.Now()
	res := s.engine.Scrub(req.Text)
	s.metrics.ObserveScanStage(observability.StageScrub, time.Since(start))

	for _, m := range res.FoundPII {
		s.metrics.PIIDetections.WithLabelValues(string(m.Category)).Inc()
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleScorePhone(w http.ResponseWriter, r *http.Request) {
	var req phoneScoreRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	// A failed snapshot degrades to format-only heuristics; the scorer
	// treats a nil blocklist as reduced confidence, not an error.
	snap, err := s.blockCache.Snapshot(r.Context())
	var bl scoring.Blocklist
	if err == nil {
		bl = snap
	}

	start := time.Now()
	assessment := s.engine.ScorePhoneNumber(req.Number, bl)
	s.metrics.ObserveScanStage(observability.StageScore, time.Since(start))

	respondJSON(w, http.StatusOK, assessment)
}
