package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/session"
)

// PracticeService manages live practice sessions on top of the session
// engine. One session per deck: starting a new run for a deck replaces
// any session already open for it, and the replaced run's persisted
// score carries over into the new one.
type PracticeService interface {
	StartSession(ctx context.Context, deckID string, cardIDs []string, mode string) (*models.SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*models.SessionView, error)
	Flip(ctx context.Context, sessionID string) (*models.SessionView, error)
	Answer(ctx context.Context, sessionID string, isCorrect bool) (*models.SessionView, error)
	Undo(ctx context.Context, sessionID string) (*models.SessionView, error)
	Restart(ctx context.Context, sessionID string) (*models.SessionView, error)
	ToggleMode(ctx context.Context, sessionID string) (*models.SessionView, error)
	Exit(ctx context.Context, sessionID string) error
	Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error)
}

type practiceService struct {
	masteryStore repository.MasteryStore
	sessionStore repository.SessionStore

	// Engine transitions are synchronous user actions; one lock
	// serializes them across the whole registry.
	mu      sync.Mutex
	engines map[string]*session.Engine
	byDeck  map[string]string
}

// NewPracticeService creates a new PracticeService
func NewPracticeService(masteryStore repository.MasteryStore, sessionStore repository.SessionStore) PracticeService {
	return &practiceService{
		masteryStore: masteryStore,
		sessionStore: sessionStore,
		engines:      make(map[string]*session.Engine),
		byDeck:       make(map[string]string),
	}
}

func (s *practiceService) StartSession(ctx context.Context, deckID string, cardIDs []string, modeStr string) (*models.SessionView, error) {
	log := logger.FromContext(ctx)

	mode, err := session.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if oldID, ok := s.byDeck[deckID]; ok {
		// Drop the old engine but keep its persisted snapshot; the new
		// run adopts the deck's score and history when it starts.
		log.Debug("replacing open session %s for deck %s", oldID, deckID)
		delete(s.engines, oldID)
		delete(s.byDeck, deckID)
	}

	engine, err := session.Start(ctx, s.masteryStore, s.sessionStore, deckID, cardIDs, mode)
	if err != nil {
		log.Error("failed to start session for deck %s: %v", deckID, err)
		return nil, err
	}

	sessionID := uuid.NewString()
	s.engines[sessionID] = engine
	s.byDeck[deckID] = sessionID
	log.Info("practice session started: session=%s deck=%s mode=%s cards=%d", sessionID, deckID, mode, len(engine.CardOrder()))

	return s.viewLocked(sessionID, engine), nil
}

func (s *practiceService) GetSession(ctx context.Context, sessionID string) (*models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID)
	if err != nil {
		return nil, err
	}
	return s.viewLocked(sessionID, engine), nil
}

func (s *practiceService) Flip(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return s.transition(ctx, sessionID, func(_ context.Context, e *session.Engine) error {
		return e.Flip()
	})
}

func (s *practiceService) Answer(ctx context.Context, sessionID string, isCorrect bool) (*models.SessionView, error) {
	return s.transition(ctx, sessionID, func(ctx context.Context, e *session.Engine) error {
		return e.Answer(ctx, isCorrect)
	})
}

func (s *practiceService) Undo(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return s.transition(ctx, sessionID, func(ctx context.Context, e *session.Engine) error {
		return e.Undo(ctx)
	})
}

func (s *practiceService) Restart(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return s.transition(ctx, sessionID, func(ctx context.Context, e *session.Engine) error {
		return e.Restart(ctx)
	})
}

func (s *practiceService) ToggleMode(ctx context.Context, sessionID string) (*models.SessionView, error) {
	return s.transition(ctx, sessionID, func(ctx context.Context, e *session.Engine) error {
		return e.ToggleMode(ctx)
	})
}

func (s *practiceService) Exit(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID)
	if err != nil {
		return err
	}
	deckID := engine.DeckID()
	engine.Exit(ctx)
	delete(s.engines, sessionID)
	delete(s.byDeck, deckID)
	logger.FromContext(ctx).Info("practice session exited: session=%s deck=%s", sessionID, deckID)
	return nil
}

func (s *practiceService) Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID)
	if err != nil {
		return nil, err
	}
	summary := engine.Summary()
	return &summary, nil
}

func (s *practiceService) transition(ctx context.Context, sessionID string, fn func(context.Context, *session.Engine) error) (*models.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	engine, err := s.engineLocked(sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(ctx, engine); err != nil {
		return nil, err
	}
	return s.viewLocked(sessionID, engine), nil
}

func (s *practiceService) engineLocked(sessionID string) (*session.Engine, error) {
	engine, ok := s.engines[sessionID]
	if !ok {
		return nil, errors.NewSessionNotFoundError(sessionID)
	}
	return engine, nil
}

func (s *practiceService) viewLocked(sessionID string, engine *session.Engine) *models.SessionView {
	view := engine.View()
	view.SessionID = sessionID
	return &view
}
