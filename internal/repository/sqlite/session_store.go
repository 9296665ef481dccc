package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
)

type sessionStore struct {
	db *sql.DB
}

// NewSessionStore creates the sqlite-backed SessionStore implementation.
// One row per deck: run counters as columns, undo history as JSON.
func NewSessionStore(db *sql.DB) repository.SessionStore {
	return &sessionStore{db: db}
}

func (s *sessionStore) Save(ctx context.Context, snap models.SessionSnapshot) error {
	log := logger.FromContext(ctx).WithPrefix("session_store")

	history, err := json.Marshal(snap.History)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO practice_sessions (deck_id, correct, incorrect, studied, history, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(deck_id) DO UPDATE SET
    correct = excluded.correct,
    incorrect = excluded.incorrect,
    studied = excluded.studied,
    history = excluded.history,
    updated_at = CURRENT_TIMESTAMP
`, snap.DeckID, snap.Stats.Correct, snap.Stats.Incorrect, snap.Stats.Studied, string(history))
	if err != nil {
		log.Error("failed to save session for deck %s: %v", snap.DeckID, err)
	}
	return err
}

func (s *sessionStore) Load(ctx context.Context, deckID string) (*models.SessionSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("session_store")

	var snap models.SessionSnapshot
	var history string
	err := s.db.QueryRowContext(ctx, `
SELECT deck_id, correct, incorrect, studied, history
FROM practice_sessions
WHERE deck_id = ?
`, deckID).Scan(&snap.DeckID, &snap.Stats.Correct, &snap.Stats.Incorrect, &snap.Stats.Studied, &history)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load session for deck %s: %v", deckID, err)
		return nil, err
	}
	if err := json.Unmarshal([]byte(history), &snap.History); err != nil {
		log.Warn("corrupt session history for deck %s, dropping it: %v", deckID, err)
		snap.History = nil
	}
	return &snap, nil
}

func (s *sessionStore) Delete(ctx context.Context, deckID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM practice_sessions WHERE deck_id = ?`, deckID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("session_store").Error("failed to delete session for deck %s: %v", deckID, err)
	}
	return err
}

func (s *sessionStore) DeleteStale(ctx context.Context, olderThan time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM practice_sessions WHERE updated_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
