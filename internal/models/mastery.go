package models

import "time"

// MasteryLevel is derived from a card's answer counters, never set directly.
type MasteryLevel string

const (
	LevelNotStarted MasteryLevel = "not-started"
	LevelLearning   MasteryLevel = "learning"
	LevelFamiliar   MasteryLevel = "familiar"
	LevelMastered   MasteryLevel = "mastered"
)

// PracticeMode records how a deck was last practiced. Informational only;
// the live session mode is held by the session engine.
type PracticeMode string

const (
	ModeStudy  PracticeMode = "study"
	ModeReview PracticeMode = "review"
	ModeTest   PracticeMode = "test"
)

type CardMastery struct {
	CardID       string       `json:"card_id"`
	Correct      int          `json:"correct"`
	Incorrect    int          `json:"incorrect"`
	Streak       int          `json:"streak"`
	LastReviewed time.Time    `json:"last_reviewed"`
	MasteryLevel MasteryLevel `json:"mastery_level"`
}

type DeckMastery struct {
	DeckID        string                 `json:"deck_id"`
	Cards         map[string]CardMastery `json:"cards"`
	TotalReviews  int                    `json:"total_reviews"`
	LastPracticed time.Time              `json:"last_practiced"`
	PracticeMode  PracticeMode           `json:"practice_mode"`
}

// NewCardMastery returns the default record created on first touch.
func NewCardMastery(cardID string) CardMastery {
	return CardMastery{
		CardID:       cardID,
		MasteryLevel: LevelNotStarted,
	}
}

// NewDeckMastery builds a fresh deck record with default cards for each id.
func NewDeckMastery(deckID string, cardIDs []string) *DeckMastery {
	cards := make(map[string]CardMastery, len(cardIDs))
	for _, id := range cardIDs {
		cards[id] = NewCardMastery(id)
	}
	return &DeckMastery{
		DeckID:       deckID,
		Cards:        cards,
		PracticeMode: ModeStudy,
	}
}

// Clone returns a deep copy so callers can snapshot without aliasing the
// store's record.
func (d *DeckMastery) Clone() *DeckMastery {
	if d == nil {
		return nil
	}
	cards := make(map[string]CardMastery, len(d.Cards))
	for id, c := range d.Cards {
		cards[id] = c
	}
	out := *d
	out.Cards = cards
	return &out
}
