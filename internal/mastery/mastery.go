// Package mastery computes how well a learner knows a single card from
// its lifetime answer counters. Classification is a pure function of
// (correct, incorrect, streak); it is recomputed on every answer and
// never stored independently, so identical counters always yield the
// same level.
package mastery

import (
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

// Level thresholds. Streak is a hard gate: high accuracy alone is never
// enough to reach familiar or mastered.
const (
	masteredAccuracy = 0.9
	masteredStreak   = 3
	familiarAccuracy = 0.7
	familiarStreak   = 2
)

// Classify derives the mastery level from a card's counters. Checks run
// top-down and the first match wins.
func Classify(correct, incorrect, streak int) models.MasteryLevel {
	total := correct + incorrect
	if total == 0 {
		return models.LevelNotStarted
	}
	accuracy := float64(correct) / float64(total)
	switch {
	case accuracy >= masteredAccuracy && streak >= masteredStreak:
		return models.LevelMastered
	case accuracy >= familiarAccuracy && streak >= familiarStreak:
		return models.LevelFamiliar
	default:
		return models.LevelLearning
	}
}

// ApplyAnswer returns the card record after one graded answer. A correct
// answer extends the streak; an incorrect one resets it to zero.
func ApplyAnswer(card models.CardMastery, isCorrect bool, now time.Time) models.CardMastery {
	if isCorrect {
		card.Correct++
		card.Streak++
	} else {
		card.Incorrect++
		card.Streak = 0
	}
	card.LastReviewed = now
	card.MasteryLevel = Classify(card.Correct, card.Incorrect, card.Streak)
	return card
}
