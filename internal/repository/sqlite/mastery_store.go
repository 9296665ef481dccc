package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/mastery"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
)

// masteryStore keeps a write-through cache of deck records. The cache is
// the authority: reads that fail fall back to fresh defaults and write
// failures are logged but do not stall the session, so a flaky disk
// degrades durability rather than the study flow. ResetDeck is the one
// write that propagates errors; pretending to delete rows that survive
// would resurrect the deck on the next load.
type masteryStore struct {
	db    *sql.DB
	mu    sync.Mutex
	cache map[string]*models.DeckMastery
}

// NewMasteryStore creates the sqlite-backed MasteryStore implementation.
func NewMasteryStore(db *sql.DB) repository.MasteryStore {
	return &masteryStore{
		db:    db,
		cache: make(map[string]*models.DeckMastery),
	}
}

func (s *masteryStore) Load(ctx context.Context, deckID string, cardIDs []string) (*models.DeckMastery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, err := s.loadLocked(ctx, deckID)
	if err != nil {
		return nil, err
	}

	if deck == nil {
		log := logger.FromContext(ctx).WithPrefix("mastery_store")
		log.Debug("creating deck mastery record: deck=%s cards=%d", deckID, len(cardIDs))
		deck = models.NewDeckMastery(deckID, cardIDs)
		s.cache[deckID] = deck
		s.saveDeck(ctx, deck)
		return deck.Clone(), nil
	}

	// Merge in cards the deck grew since the record was created.
	grown := false
	for _, id := range cardIDs {
		if _, ok := deck.Cards[id]; !ok {
			deck.Cards[id] = models.NewCardMastery(id)
			grown = true
		}
	}
	if grown {
		s.saveDeck(ctx, deck)
	}
	return deck.Clone(), nil
}

func (s *masteryStore) RecordAnswer(ctx context.Context, deckID, cardID string, isCorrect bool) (*models.CardMastery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, err := s.loadLocked(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, errors.NewCardNotFoundError(deckID, cardID)
	}
	card, ok := deck.Cards[cardID]
	if !ok {
		return nil, errors.NewCardNotFoundError(deckID, cardID)
	}

	now := time.Now().UTC()
	updated := mastery.ApplyAnswer(card, isCorrect, now)
	deck.Cards[cardID] = updated
	deck.TotalReviews++
	deck.LastPracticed = now

	s.saveCard(ctx, deck, updated)

	out := updated
	return &out, nil
}

func (s *masteryStore) RestoreCard(ctx context.Context, deckID, cardID string, snapshot models.CardMastery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, err := s.loadLocked(ctx, deckID)
	if err != nil {
		return err
	}
	if deck == nil {
		return errors.NewCardNotFoundError(deckID, cardID)
	}
	if _, ok := deck.Cards[cardID]; !ok {
		return errors.NewCardNotFoundError(deckID, cardID)
	}

	// Snapshot is written back verbatim; the deck's lifetime review
	// counter stays as-is.
	snapshot.CardID = cardID
	deck.Cards[cardID] = snapshot
	s.saveCard(ctx, deck, snapshot)
	return nil
}

func (s *masteryStore) ResetDeck(ctx context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logger.FromContext(ctx).WithPrefix("mastery_store")
	log.Info("resetting deck mastery: deck=%s", deckID)

	delete(s.cache, deckID)
	// card_mastery rows go with the deck via ON DELETE CASCADE.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM deck_mastery WHERE deck_id = ?`, deckID); err != nil {
		log.Error("failed to delete deck mastery: %v", err)
		return errors.NewStorageUnavailableError(err)
	}
	return nil
}

// loadLocked returns the cached record, reading it from sqlite on a
// cache miss. A read failure is non-fatal: it is logged and the deck is
// treated as absent so the caller proceeds with defaults.
func (s *masteryStore) loadLocked(ctx context.Context, deckID string) (*models.DeckMastery, error) {
	if deck, ok := s.cache[deckID]; ok {
		return deck, nil
	}

	log := logger.FromContext(ctx).WithPrefix("mastery_store")
	deck, err := s.readDeck(ctx, deckID)
	if err != nil {
		log.Warn("failed to read deck %s, continuing with defaults: %v", deckID, err)
		return nil, nil
	}
	if deck != nil {
		s.cache[deckID] = deck
	}
	return deck, nil
}

func (s *masteryStore) readDeck(ctx context.Context, deckID string) (*models.DeckMastery, error) {
	deck := &models.DeckMastery{
		DeckID: deckID,
		Cards:  make(map[string]models.CardMastery),
	}

	var lastPracticed sql.NullTime
	err := s.db.QueryRowContext(ctx, `
SELECT total_reviews, last_practiced, practice_mode
FROM deck_mastery
WHERE deck_id = ?
`, deckID).Scan(&deck.TotalReviews, &lastPracticed, &deck.PracticeMode)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastPracticed.Valid {
		deck.LastPracticed = lastPracticed.Time
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT card_id, correct, incorrect, streak, last_reviewed, mastery_level
FROM card_mastery
WHERE deck_id = ?
`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c models.CardMastery
		var lastReviewed sql.NullTime
		if err := rows.Scan(&c.CardID, &c.Correct, &c.Incorrect, &c.Streak, &lastReviewed, &c.MasteryLevel); err != nil {
			return nil, err
		}
		if lastReviewed.Valid {
			c.LastReviewed = lastReviewed.Time
		}
		deck.Cards[c.CardID] = c
	}
	return deck, rows.Err()
}

// saveDeck persists the whole record: deck row plus every card row.
func (s *masteryStore) saveDeck(ctx context.Context, deck *models.DeckMastery) {
	log := logger.FromContext(ctx).WithPrefix("mastery_store")
	err := tx(ctx, s.db, func(t *sql.Tx) error {
		if err := upsertDeckRow(ctx, t, deck); err != nil {
			return err
		}
		for _, card := range deck.Cards {
			if err := upsertCardRow(ctx, t, deck.DeckID, card); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Warn("failed to persist deck %s, in-memory record still advances: %v", deck.DeckID, err)
	}
}

// saveCard persists one mutated card together with the deck counters.
func (s *masteryStore) saveCard(ctx context.Context, deck *models.DeckMastery, card models.CardMastery) {
	log := logger.FromContext(ctx).WithPrefix("mastery_store")
	err := tx(ctx, s.db, func(t *sql.Tx) error {
		if err := upsertDeckRow(ctx, t, deck); err != nil {
			return err
		}
		return upsertCardRow(ctx, t, deck.DeckID, card)
	})
	if err != nil {
		log.Warn("failed to persist card %s/%s, in-memory record still advances: %v", deck.DeckID, card.CardID, err)
	}
}

func upsertDeckRow(ctx context.Context, t *sql.Tx, deck *models.DeckMastery) error {
	_, err := t.ExecContext(ctx, `
INSERT INTO deck_mastery (deck_id, total_reviews, last_practiced, practice_mode)
VALUES (?, ?, ?, ?)
ON CONFLICT(deck_id) DO UPDATE SET
    total_reviews = excluded.total_reviews,
    last_practiced = excluded.last_practiced,
    practice_mode = excluded.practice_mode
`, deck.DeckID, deck.TotalReviews, nullTime(deck.LastPracticed), deck.PracticeMode)
	return err
}

func upsertCardRow(ctx context.Context, t *sql.Tx, deckID string, card models.CardMastery) error {
	_, err := t.ExecContext(ctx, `
INSERT INTO card_mastery (deck_id, card_id, correct, incorrect, streak, last_reviewed, mastery_level)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(deck_id, card_id) DO UPDATE SET
    correct = excluded.correct,
    incorrect = excluded.incorrect,
    streak = excluded.streak,
    last_reviewed = excluded.last_reviewed,
    mastery_level = excluded.mastery_level
`, deckID, card.CardID, card.Correct, card.Incorrect, card.Streak, nullTime(card.LastReviewed), card.MasteryLevel)
	return err
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
