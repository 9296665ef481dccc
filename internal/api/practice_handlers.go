package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
)

type startSessionRequest struct {
	CardIDs []string `json:"card_ids"`
	Mode    string   `json:"mode"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	deckID := chi.URLParam(r, "deckID")

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("starting practice session: deck=%s mode=%q cards=%d", deckID, req.Mode, len(req.CardIDs))

	view, err := s.PracticeService.StartSession(r.Context(), deckID, req.CardIDs, req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Flip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

type answerRequest struct {
	Correct *bool `json:"correct"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewValidationError("correct", "must be provided"))
		return
	}

	view, err := s.PracticeService.Answer(r.Context(), chi.URLParam(r, "id"), *req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Undo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.ToggleMode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleExitSession(w http.ResponseWriter, r *http.Request) {
	if err := s.PracticeService.Exit(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.PracticeService.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}
