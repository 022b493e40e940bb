package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/scamshield-app/scamshield/internal/blocklist"
	"github.com/scamshield-app/scamshield/internal/scoring"
)

type blocklistAddRequest struct {
	Number string `json:"number"`
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleListBlocklist(w http.ResponseWriter, r *http.Request) {
	entries, err := s.blockStore.List(r.Context(), queryLimit(r, 100))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "blocklist_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleAddBlocklist(w http.ResponseWriter, r *http.Request) {
	var req blocklistAddRequest
	if err := s.decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	digits, ok := scoring.NormalizePhoneNumber(req.Number)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_number", "number does not normalize to 10 digits")
		return
	}

	entry, err := s.blockStore.Add(r.Context(), blocklist.Entry{
		Number: digits,
		Reason: strings.TrimSpace(req.Reason),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "blocklist_error", err.Error())
		return
	}
	s.blockCache.Invalidate()
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveBlocklist(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	digits, ok := scoring.NormalizePhoneNumber(number)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_number", "number does not normalize to 10 digits")
		return
	}

	if err := s.blockStore.Remove(r.Context(), digits); err != nil {
		if errors.Is(err, blocklist.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "blocklist_error", err.Error())
		return
	}
	s.blockCache.Invalidate()
	respondJSON(w, http.StatusOK, map[string]any{"removed": digits})
}

func queryLimit(r *http.Request, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
