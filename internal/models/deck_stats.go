package models

import "time"

type DeckStat struct {
	DeckID          string      `json:"deck_id"`
	TotalCards      int         `json:"total_cards"`
	Levels          LevelCounts `json:"levels"`
	TotalReviews    int         `json:"total_reviews"`
	OverallAccuracy float64     `json:"overall_accuracy"`
	LastPracticed   time.Time   `json:"last_practiced"`
}

// DeckOverview is the list-screen row: one line per tracked deck.
type DeckOverview struct {
	DeckID        string       `json:"deck_id"`
	TotalCards    int          `json:"total_cards"`
	Mastered      int          `json:"mastered"`
	TotalReviews  int          `json:"total_reviews"`
	LastPracticed time.Time    `json:"last_practiced"`
	PracticeMode  PracticeMode `json:"practice_mode"`
}

type DeckFilter struct {
	PracticeMode string
	Limit        int
}
