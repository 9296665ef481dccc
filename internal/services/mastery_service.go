package services

import (
	"context"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
)

// MasteryService handles deck-level mastery reads and resets
type MasteryService interface {
	GetDeckMastery(ctx context.Context, deckID string) (*models.DeckMastery, error)
	ResetDeck(ctx context.Context, deckID string) error
	DeckStats(ctx context.Context, deckID string) (*models.DeckStat, error)
	ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.DeckOverview, error)
}

type masteryService struct {
	store repository.MasteryStore
	stats repository.StatsRepository
}

// NewMasteryService creates a new MasteryService
func NewMasteryService(store repository.MasteryStore, stats repository.StatsRepository) MasteryService {
	return &masteryService{store: store, stats: stats}
}

func (s *masteryService) GetDeckMastery(ctx context.Context, deckID string) (*models.DeckMastery, error) {
	log := logger.FromContext(ctx)
	log.Debug("loading deck mastery: deck=%s", deckID)

	// Records are created lazily on first access; a never-practiced deck
	// comes back with an empty card map.
	deck, err := s.store.Load(ctx, deckID, nil)
	if err != nil {
		log.Error("failed to load deck mastery: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return deck, nil
}

func (s *masteryService) ResetDeck(ctx context.Context, deckID string) error {
	log := logger.FromContext(ctx)
	log.Info("resetting deck mastery: deck=%s", deckID)

	if err := s.store.ResetDeck(ctx, deckID); err != nil {
		log.Error("failed to reset deck: %v", err)
		return err
	}
	return nil
}

func (s *masteryService) DeckStats(ctx context.Context, deckID string) (*models.DeckStat, error) {
	stat, err := s.stats.DeckStats(ctx, deckID)
	if err != nil {
		if _, ok := err.(*errors.AppError); ok {
			return nil, err
		}
		logger.FromContext(ctx).Error("failed to compute deck stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stat, nil
}

func (s *masteryService) ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.DeckOverview, error) {
	decks, err := s.stats.DeckOverviews(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}
