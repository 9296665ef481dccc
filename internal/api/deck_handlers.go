package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	filter := models.DeckFilter{
		PracticeMode: r.URL.Query().Get("mode"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}

	decks, err := s.MasteryService.ListDecks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleDeckMastery(w http.ResponseWriter, r *http.Request) {
	deck, err := s.MasteryService.GetDeckMastery(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, deck)
}

func (s *Server) handleResetDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	logger.FromContext(r.Context()).Info("deck reset requested: deck=%s", deckID)

	if err := s.MasteryService.ResetDeck(r.Context(), deckID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}

func (s *Server) handleDeckStats(w http.ResponseWriter, r *http.Request) {
	stat, err := s.MasteryService.DeckStats(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stat)
}
