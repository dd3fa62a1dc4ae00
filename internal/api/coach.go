package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/coach/internal/coach"
	"github.com/MikeSquared-Agency/coach/internal/training"
)

// AnalyzeRequest is the body of POST /api/v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
	coach.AnalyzeOptions
}

// UpdateRequest is the body of POST /api/v1/state/update.
type UpdateRequest struct {
	Dimension string   `json:"dimension"`
	Score     *float64 `json:"score"`
	Modality  string   `json:"modality"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return training.InvalidArguments("invalid JSON: %v", err)
	}
	return nil
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	out, err := s.coach.Analyze(r.Context(), req.Text, req.AnalyzeOptions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	st, err := s.coach.State(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) updateState(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Dimension == "" || req.Score == nil {
		s.writeError(w, training.InvalidArguments("dimension and score are required"))
		return
	}

	report, err := s.coach.Update(r.Context(), req.Dimension, *req.Score, req.Modality)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) weakest(w http.ResponseWriter, r *http.Request) {
	wk, err := s.coach.Weakest(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) archive(w http.ResponseWriter, r *http.Request) {
	entry, err := s.coach.Archive(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"archived":    true,
		"month":       entry.Month,
		"archived_at": entry.ArchivedAt,
	})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	entries, err := s.coach.History(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) resetState(w http.ResponseWriter, r *http.Request) {
	if err := s.coach.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
