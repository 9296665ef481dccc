package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", s.handleListDecks)
		r.Route("/decks/{deckID}", func(r chi.Router) {
			r.Post("/sessions", s.handleStartSession)
			r.Get("/mastery", s.handleDeckMastery)
			r.Delete("/mastery", s.handleResetDeck)
			r.Get("/stats", s.handleDeckStats)
		})

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleExitSession)
			r.Post("/flip", s.handleFlip)
			r.Post("/answer", s.handleAnswer)
			r.Post("/undo", s.handleUndo)
			r.Post("/restart", s.handleRestart)
			r.Post("/toggle-mode", s.handleToggleMode)
			r.Get("/summary", s.handleSummary)
		})
	})

	return r
}
