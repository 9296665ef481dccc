package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

// MockMasteryStore is a mock implementation of repository.MasteryStore
type MockMasteryStore struct {
	mock.Mock
}

func (m *MockMasteryStore) Load(ctx context.Context, deckID string, cardIDs []string) (*models.DeckMastery, error) {
	args := m.Called(ctx, deckID, cardIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeckMastery), args.Error(1)
}

func (m *MockMasteryStore) RecordAnswer(ctx context.Context, deckID, cardID string, isCorrect bool) (*models.CardMastery, error) {
	args := m.Called(ctx, deckID, cardID, isCorrect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardMastery), args.Error(1)
}

func (m *MockMasteryStore) RestoreCard(ctx context.Context, deckID, cardID string, snapshot models.CardMastery) error {
	args := m.Called(ctx, deckID, cardID, snapshot)
	return args.Error(0)
}

func (m *MockMasteryStore) ResetDeck(ctx context.Context, deckID string) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}
