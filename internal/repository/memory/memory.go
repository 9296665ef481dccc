// Package memory provides map-backed MasteryStore and SessionStore
// implementations. They back tests and serve as the degraded-mode store
// when no database is reachable; records live only for the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/mastery"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
)

type MasteryStore struct {
	mu    sync.Mutex
	decks map[string]*models.DeckMastery

	// Now is swappable so tests can pin timestamps.
	Now func() time.Time
}

func NewMasteryStore() *MasteryStore {
	return &MasteryStore{
		decks: make(map[string]*models.DeckMastery),
		Now:   time.Now,
	}
}

var _ repository.MasteryStore = (*MasteryStore)(nil)

func (s *MasteryStore) Load(_ context.Context, deckID string, cardIDs []string) (*models.DeckMastery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[deckID]
	if !ok {
		deck = models.NewDeckMastery(deckID, cardIDs)
		s.decks[deckID] = deck
	} else {
		for _, id := range cardIDs {
			if _, ok := deck.Cards[id]; !ok {
				deck.Cards[id] = models.NewCardMastery(id)
			}
		}
	}
	return deck.Clone(), nil
}

func (s *MasteryStore) RecordAnswer(_ context.Context, deckID, cardID string, isCorrect bool) (*models.CardMastery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[deckID]
	if !ok {
		return nil, errors.NewCardNotFoundError(deckID, cardID)
	}
	card, ok := deck.Cards[cardID]
	if !ok {
		return nil, errors.NewCardNotFoundError(deckID, cardID)
	}

	now := s.Now().UTC()
	updated := mastery.ApplyAnswer(card, isCorrect, now)
	deck.Cards[cardID] = updated
	deck.TotalReviews++
	deck.LastPracticed = now

	out := updated
	return &out, nil
}

func (s *MasteryStore) RestoreCard(_ context.Context, deckID, cardID string, snapshot models.CardMastery) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[deckID]
	if !ok {
		return errors.NewCardNotFoundError(deckID, cardID)
	}
	if _, ok := deck.Cards[cardID]; !ok {
		return errors.NewCardNotFoundError(deckID, cardID)
	}
	snapshot.CardID = cardID
	deck.Cards[cardID] = snapshot
	return nil
}

func (s *MasteryStore) ResetDeck(_ context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.decks, deckID)
	return nil
}

type sessionEntry struct {
	snap      models.SessionSnapshot
	updatedAt time.Time
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry

	Now func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		Now:      time.Now,
	}
}

var _ repository.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(_ context.Context, snap models.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.History = append([]models.AnswerRecord(nil), snap.History...)
	s.sessions[snap.DeckID] = sessionEntry{snap: snap, updatedAt: s.Now()}
	return nil
}

func (s *SessionStore) Load(_ context.Context, deckID string) (*models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[deckID]
	if !ok {
		return nil, nil
	}
	snap := entry.snap
	snap.History = append([]models.AnswerRecord(nil), entry.snap.History...)
	return &snap, nil
}

func (s *SessionStore) Delete(_ context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, deckID)
	return nil
}

func (s *SessionStore) DeleteStale(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for deckID, entry := range s.sessions {
		if entry.updatedAt.Before(olderThan) {
			delete(s.sessions, deckID)
			n++
		}
	}
	return n, nil
}
