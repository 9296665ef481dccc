package models

// SessionStats counts answers for a single practice run, not lifetime totals.
type SessionStats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Studied   int `json:"studied"`
}

// AnswerRecord holds everything needed to invert one recorded answer.
type AnswerRecord struct {
	CardID    string      `json:"card_id"`
	IsCorrect bool        `json:"is_correct"`
	Snapshot  CardMastery `json:"snapshot"`
}

// SessionSnapshot is the persisted portion of a practice run. Cursor,
// flipped and card order are deliberately not stored; a resumed session
// keeps its score but starts over from the first card.
type SessionSnapshot struct {
	DeckID  string         `json:"deck_id"`
	Stats   SessionStats   `json:"stats"`
	History []AnswerRecord `json:"history"`
}

// SessionView is the read model handed to API callers after each action.
type SessionView struct {
	SessionID     string       `json:"session_id"`
	DeckID        string       `json:"deck_id"`
	Mode          string       `json:"mode"`
	CardOrder     []string     `json:"card_order"`
	Cursor        int          `json:"cursor"`
	CurrentCardID string       `json:"current_card_id,omitempty"`
	Flipped       bool         `json:"flipped"`
	Stats         SessionStats `json:"stats"`
	Complete      bool         `json:"complete"`
}

// SessionSummary is emitted once a run is complete.
type SessionSummary struct {
	DeckID     string       `json:"deck_id"`
	Mode       string       `json:"mode"`
	TotalCards int          `json:"total_cards"`
	Stats      SessionStats `json:"stats"`
	Accuracy   float64      `json:"accuracy"`
	Levels     LevelCounts  `json:"levels"`
}

// LevelCounts tallies a deck's cards by mastery level.
type LevelCounts struct {
	NotStarted int `json:"not_started"`
	Learning   int `json:"learning"`
	Familiar   int `json:"familiar"`
	Mastered   int `json:"mastered"`
}
