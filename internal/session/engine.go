// Package session drives a single practice run over a deck: flip,
// grade, advance, undo, restart. Every transition is triggered by one
// user action and runs to completion before the next is accepted; the
// engine holds card identifiers only and reads/writes mastery data
// through the injected store.
package session

import (
	"context"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/review"
)

// Mode selects which cards a run iterates.
type Mode string

const (
	// ModeAll practices the full deck in its own order.
	ModeAll Mode = "all"
	// ModeReview practices only non-mastered cards, ordered by need.
	ModeReview Mode = "review"
)

// ParseMode validates a mode string from an API caller.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModeReview:
		return Mode(s), nil
	case "":
		return ModeAll, nil
	default:
		return "", errors.NewValidationError("mode", "must be \"all\" or \"review\"")
	}
}

func (m Mode) opposite() Mode {
	if m == ModeAll {
		return ModeReview
	}
	return ModeAll
}

// PracticeMode maps the session mode onto the deck-level enum.
func (m Mode) PracticeMode() models.PracticeMode {
	if m == ModeReview {
		return models.ModeReview
	}
	return models.ModeStudy
}

// Engine is the state machine for one practice run. Not safe for
// concurrent use; callers serialize actions per session.
type Engine struct {
	store    repository.MasteryStore
	sessions repository.SessionStore

	deckID    string
	deckOrder []string // full deck order as supplied by the caller
	mode      Mode
	deck      *models.DeckMastery // engine's read copy of the store record

	cardOrder []string
	cursor    int
	flipped   bool
	stats     models.SessionStats
	history   []models.AnswerRecord
	complete  bool
}

// Start begins a practice run for a deck. cardIDs is the deck's full
// ordered card list; in review mode the run is narrowed to the cards
// that still need work, captured once here and never re-sorted
// mid-session. If a persisted snapshot exists for the deck its stats
// and history are adopted, but the run restarts at the first card.
func Start(ctx context.Context, store repository.MasteryStore, sessions repository.SessionStore, deckID string, cardIDs []string, mode Mode) (*Engine, error) {
	if deckID == "" {
		return nil, errors.NewValidationError("deckId", "must not be empty")
	}

	e := &Engine{
		store:     store,
		sessions:  sessions,
		deckID:    deckID,
		deckOrder: append([]string(nil), cardIDs...),
		mode:      mode,
	}
	if err := e.start(ctx, true); err != nil {
		return nil, err
	}
	return e, nil
}

// start (re)initializes the run for the current mode. resume controls
// whether a persisted snapshot is adopted; mode toggles discard it.
func (e *Engine) start(ctx context.Context, resume bool) error {
	log := logger.FromContext(ctx).WithPrefix("session")

	deck, err := e.store.Load(ctx, e.deckID, e.deckOrder)
	if err != nil {
		return err
	}
	e.deck = deck

	if e.mode == ModeReview {
		e.cardOrder = review.Select(deck, e.deckOrder)
	} else {
		e.cardOrder = append([]string(nil), e.deckOrder...)
	}

	e.cursor = 0
	e.flipped = false
	e.stats = models.SessionStats{}
	e.history = nil
	e.complete = len(e.cardOrder) == 0

	if resume {
		snap, err := e.sessions.Load(ctx, e.deckID)
		if err != nil {
			log.Warn("failed to load session snapshot for deck %s, starting fresh: %v", e.deckID, err)
		} else if snap != nil {
			// Only the score and undo history survive a reload; the card
			// pointer intentionally restarts at the first card.
			e.stats = snap.Stats
			e.history = snap.History
			log.Debug("resumed session for deck %s: studied=%d", e.deckID, e.stats.Studied)
		}
	} else {
		e.persist(ctx)
	}

	log.Debug("session started: deck=%s mode=%s cards=%d", e.deckID, e.mode, len(e.cardOrder))
	return nil
}

// persist writes the durable part of the run. Durability is best-effort:
// failures are logged and the in-memory run advances regardless.
func (e *Engine) persist(ctx context.Context) {
	snap := models.SessionSnapshot{
		DeckID:  e.deckID,
		Stats:   e.stats,
		History: e.history,
	}
	if err := e.sessions.Save(ctx, snap); err != nil {
		logger.FromContext(ctx).WithPrefix("session").Warn("failed to persist session for deck %s: %v", e.deckID, err)
	}
}

func (e *Engine) active() error {
	if e.deckID == "" {
		return errors.NewInvalidTransitionError("action on exited session")
	}
	return nil
}

// Flip reveals the current card's back face. Idempotent while the card
// is already flipped.
func (e *Engine) Flip() error {
	if err := e.active(); err != nil {
		return err
	}
	if e.complete {
		return errors.NewInvalidTransitionError("flip")
	}
	e.flipped = true
	return nil
}

// Answer grades the current card. A grade on an unflipped card is
// reinterpreted as a flip and the grade itself is discarded; an answer
// can only be recorded against a revealed card. The store call completes
// before any engine state changes, so a store failure leaves stats and
// history untouched.
func (e *Engine) Answer(ctx context.Context, isCorrect bool) error {
	if err := e.active(); err != nil {
		return err
	}
	if e.complete {
		return errors.NewInvalidTransitionError("answer")
	}
	if !e.flipped {
		e.flipped = true
		return nil
	}

	cardID := e.cardOrder[e.cursor]
	snapshot, ok := e.deck.Cards[cardID]
	if !ok {
		snapshot = models.NewCardMastery(cardID)
	}

	updated, err := e.store.RecordAnswer(ctx, e.deckID, cardID, isCorrect)
	if err != nil {
		return err
	}
	e.deck.Cards[cardID] = *updated
	e.deck.TotalReviews++
	e.deck.LastPracticed = updated.LastReviewed

	e.stats.Studied++
	if isCorrect {
		e.stats.Correct++
	} else {
		e.stats.Incorrect++
	}
	e.history = append(e.history, models.AnswerRecord{
		CardID:    cardID,
		IsCorrect: isCorrect,
		Snapshot:  snapshot,
	})

	if e.cursor == len(e.cardOrder)-1 {
		e.complete = true
	} else {
		e.cursor++
		e.flipped = false
	}

	e.persist(ctx)
	return nil
}

// Undo inverts the single most recent answer: the card's mastery record
// is restored from its pre-answer snapshot and the run's stats shrink by
// that answer's contribution. No-op when there is nothing to undo.
// Repeated calls pop further back, one entry per call. The deck's
// lifetime review counter is intentionally not rolled back.
func (e *Engine) Undo(ctx context.Context) error {
	if err := e.active(); err != nil {
		return err
	}
	if len(e.history) == 0 {
		return nil
	}

	idx := len(e.history) - 1
	entry := e.history[idx]

	if err := e.store.RestoreCard(ctx, e.deckID, entry.CardID, entry.Snapshot); err != nil {
		return err
	}
	e.deck.Cards[entry.CardID] = entry.Snapshot

	e.history = e.history[:idx]
	e.stats.Studied--
	if entry.IsCorrect {
		e.stats.Correct--
	} else {
		e.stats.Incorrect--
	}

	// The cursor returns to the undone card's slot in this run, not to
	// the entry's index in history: adopted history from a resumed
	// snapshot does not line up with the current card sequence, and in
	// review mode an adopted entry may not be in the sequence at all.
	if pos := e.orderIndex(entry.CardID); pos >= 0 {
		if e.cursor > pos {
			e.cursor = pos
		}
		e.flipped = false
		e.complete = false
	}

	e.persist(ctx)
	return nil
}

func (e *Engine) orderIndex(cardID string) int {
	for i, id := range e.cardOrder {
		if id == cardID {
			return i
		}
	}
	return -1
}

// Restart zeroes the run but keeps the card sequence chosen at start,
// even in review mode. Switching modes is a fresh start, not a restart.
func (e *Engine) Restart(ctx context.Context) error {
	if err := e.active(); err != nil {
		return err
	}
	e.cursor = 0
	e.flipped = false
	e.stats = models.SessionStats{}
	e.history = nil
	e.complete = len(e.cardOrder) == 0
	e.persist(ctx)
	return nil
}

// ToggleMode discards the current run and starts over in the opposite
// mode, recomputing the card sequence.
func (e *Engine) ToggleMode(ctx context.Context) error {
	if err := e.active(); err != nil {
		return err
	}
	e.mode = e.mode.opposite()
	return e.start(ctx, false)
}

// Exit ends the run and clears its persisted counters. The deck's
// mastery data remains. Any further action on the engine fails.
func (e *Engine) Exit(ctx context.Context) {
	if e.deckID == "" {
		return
	}
	if err := e.sessions.Delete(ctx, e.deckID); err != nil {
		logger.FromContext(ctx).WithPrefix("session").Warn("failed to clear session for deck %s: %v", e.deckID, err)
	}
	e.deckID = ""
	e.deck = nil
	e.cardOrder = nil
	e.history = nil
	e.stats = models.SessionStats{}
}

// DeckID returns the deck this run iterates, or "" after Exit.
func (e *Engine) DeckID() string { return e.deckID }

// Mode returns the current session mode.
func (e *Engine) Mode() Mode { return e.mode }

// Complete reports whether every card in the run has been answered.
func (e *Engine) Complete() bool { return e.complete }

// Stats returns the run's counters.
func (e *Engine) Stats() models.SessionStats { return e.stats }

// CardOrder returns the fixed card sequence for this run.
func (e *Engine) CardOrder() []string {
	return append([]string(nil), e.cardOrder...)
}

// CurrentCard returns the id of the card under the cursor; ok is false
// once the run is complete or empty.
func (e *Engine) CurrentCard() (string, bool) {
	if e.complete || e.cursor >= len(e.cardOrder) {
		return "", false
	}
	return e.cardOrder[e.cursor], true
}

// View builds the read model handed back after every action.
func (e *Engine) View() models.SessionView {
	v := models.SessionView{
		DeckID:    e.deckID,
		Mode:      string(e.mode),
		CardOrder: e.CardOrder(),
		Cursor:    e.cursor,
		Flipped:   e.flipped,
		Stats:     e.stats,
		Complete:  e.complete,
	}
	if id, ok := e.CurrentCard(); ok {
		v.CurrentCardID = id
	}
	return v
}

// Summary reports the completed (or abandoned) run together with the
// deck's current per-level tallies.
func (e *Engine) Summary() models.SessionSummary {
	s := models.SessionSummary{
		DeckID:     e.deckID,
		Mode:       string(e.mode),
		TotalCards: len(e.cardOrder),
		Stats:      e.stats,
	}
	if e.stats.Studied > 0 {
		s.Accuracy = float64(e.stats.Correct) / float64(e.stats.Studied)
	}
	if e.deck != nil {
		for _, c := range e.deck.Cards {
			switch c.MasteryLevel {
			case models.LevelMastered:
				s.Levels.Mastered++
			case models.LevelFamiliar:
				s.Levels.Familiar++
			case models.LevelLearning:
				s.Levels.Learning++
			default:
				s.Levels.NotStarted++
			}
		}
	}
	return s
}
