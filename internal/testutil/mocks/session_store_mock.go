package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
)

// MockSessionStore is a mock implementation of repository.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, snapshot models.SessionSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, deckID string) (*models.SessionSnapshot, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionSnapshot), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, deckID string) error {
	args := m.Called(ctx, deckID)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteStale(ctx context.Context, olderThan time.Time) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}
