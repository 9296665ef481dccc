// Package review selects and orders the cards that still need study.
package review

import (
	"sort"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

// Priority weight per level: untouched cards come first, then cards still
// being learned, then cards that are merely familiar.
var levelWeight = map[models.MasteryLevel]int{
	models.LevelNotStarted: 3,
	models.LevelLearning:   2,
	models.LevelFamiliar:   1,
}

// Select returns the ids of non-mastered cards ordered by need: higher
// level weight first, then more misses first. cardOrder supplies the
// deck's own card ordering and acts as the final tie-break, which keeps
// the result deterministic despite Cards being a map. Returns an empty
// slice when every card is mastered.
func Select(deck *models.DeckMastery, cardOrder []string) []string {
	type candidate struct {
		id        string
		weight    int
		incorrect int
	}

	candidates := make([]candidate, 0, len(cardOrder))
	for _, id := range cardOrder {
		card, ok := deck.Cards[id]
		if !ok {
			// Deck grew a card the record has not seen yet; treat as new.
			card = models.NewCardMastery(id)
		}
		if card.MasteryLevel == models.LevelMastered {
			continue
		}
		candidates = append(candidates, candidate{
			id:        id,
			weight:    levelWeight[card.MasteryLevel],
			incorrect: card.Incorrect,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].incorrect > candidates[j].incorrect
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}
