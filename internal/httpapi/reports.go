package httpapi

import (
	"net/http"
	"strings"

	"github.com/scamshield-app/scamshield/internal/reports"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

type reportRequest struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
	Sender  string `json:"sender,omitempty"`
}

// handleCreateReport runs a submission through the full pipeline first.
// Only scrubbed text is ever persisted, and a hard-blocked submission is
// refused outright rather than stored redacted.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	channel, err := scoring.ParseChannel(req.Channel)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_channel", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "text is required")
		return
	}
	if len(req.Text) > s.cfg.MaxInputBytes {
		respondError(w, http.StatusRequestEntityTooLarge, "input_too_large", "text exceeds maximum length")
		return
	}

	res := s.runAnalysis(req.Text, channel, req.Sender)
	if res.Blocked {
		respondError(w, http.StatusUnprocessableEntity, "blocked_for_protection",
			"submission contains data that cannot be stored, even redacted")
		return
	}

	sender := req.Sender
	if sender != "" {
		sender = s.engine.Scrub(sender).CleanText
	}
	saved, err := s.reports.Save(r.Context(), reports.Report{
		Channel:   string(channel),
		Sender:    sender,
		CleanText: res.CleanText,
		Label:     string(res.Assessment.Label),
		Score:     res.Assessment.Score,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "report_error", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	out, err := s.reports.Recent(r.Context(), queryLimit(r, 50))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "report_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reports": out})
}
