package repository

import (
	"context"
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

// MasteryStore owns DeckMastery records. Any key-value persistence
// implementation satisfies it; the session engine never touches storage
// directly.
type MasteryStore interface {
	// Load returns the deck's record, creating it (and any card ids the
	// record is missing) with defaults first. The returned record is a
	// copy; mutations go through RecordAnswer/RestoreCard.
	Load(ctx context.Context, deckID string, cardIDs []string) (*models.DeckMastery, error)

	// RecordAnswer applies one graded answer to a card, recomputes its
	// mastery level, bumps the deck lifetime counters and persists the
	// whole record. Fails with CARD_NOT_FOUND for untracked cards.
	RecordAnswer(ctx context.Context, deckID, cardID string, isCorrect bool) (*models.CardMastery, error)

	// RestoreCard overwrites a card's record with a snapshot taken before
	// an answer was applied. Deck lifetime counters are not rolled back.
	RestoreCard(ctx context.Context, deckID, cardID string, snapshot models.CardMastery) error

	// ResetDeck deletes the deck's mastery record entirely.
	ResetDeck(ctx context.Context, deckID string) error
}

// SessionStore persists in-progress practice-run counters and history so
// a run survives a reload. Keyed by deck id; cursor, flipped state and
// card order are deliberately not stored.
type SessionStore interface {
	Save(ctx context.Context, snapshot models.SessionSnapshot) error
	Load(ctx context.Context, deckID string) (*models.SessionSnapshot, error)
	Delete(ctx context.Context, deckID string) error
	DeleteStale(ctx context.Context, olderThan time.Time) (int, error)
}

// StatsRepository serves read-only aggregates for the deck list and
// per-deck summary screens.
type StatsRepository interface {
	DeckOverviews(ctx context.Context, filter models.DeckFilter) ([]models.DeckOverview, error)
	DeckStats(ctx context.Context, deckID string) (*models.DeckStat, error)
}
