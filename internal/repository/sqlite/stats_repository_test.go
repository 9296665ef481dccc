package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	apperrors "github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository/sqlite"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/testutil"
)

type StatsRepositorySuite struct {
	suite.Suite
	db    *sql.DB
	store repository.MasteryStore
	repo  repository.StatsRepository
}

func (s *StatsRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewMasteryStore(s.db)
	s.repo = sqlite.NewStatsRepository(s.db)
}

func (s *StatsRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *StatsRepositorySuite) seedDeck(deckID string, cardIDs []string) {
	_, err := s.store.Load(context.Background(), deckID, cardIDs)
	s.Require().NoError(err)
}

func (s *StatsRepositorySuite) answer(deckID, cardID string, correct bool) {
	_, err := s.store.RecordAnswer(context.Background(), deckID, cardID, correct)
	s.Require().NoError(err)
}

func (s *StatsRepositorySuite) TestDeckStats() {
	ctx := context.Background()
	s.seedDeck("deck-1", []string{"a", "b", "c"})

	// a: mastered, b: learning, c: untouched.
	for i := 0; i < 3; i++ {
		s.answer("deck-1", "a", true)
	}
	s.answer("deck-1", "b", false)

	stat, err := s.repo.DeckStats(ctx, "deck-1")
	s.Require().NoError(err)

	s.Equal(3, stat.TotalCards)
	s.Equal(models.LevelCounts{NotStarted: 1, Learning: 1, Mastered: 1}, stat.Levels)
	s.Equal(4, stat.TotalReviews)
	s.InDelta(0.75, stat.OverallAccuracy, 1e-9)
	s.False(stat.LastPracticed.IsZero())
}

func (s *StatsRepositorySuite) TestDeckStatsUnknownDeck() {
	_, err := s.repo.DeckStats(context.Background(), "nope")
	s.Require().Error(err)
	s.True(apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func (s *StatsRepositorySuite) TestDeckOverviews() {
	ctx := context.Background()
	s.seedDeck("deck-1", []string{"a", "b"})
	s.seedDeck("deck-2", []string{"x"})

	for i := 0; i < 3; i++ {
		s.answer("deck-1", "a", true)
	}
	s.answer("deck-2", "x", true)

	decks, err := s.repo.DeckOverviews(ctx, models.DeckFilter{})
	s.Require().NoError(err)
	s.Require().Len(decks, 2)

	byID := map[string]models.DeckOverview{}
	for _, d := range decks {
		byID[d.DeckID] = d
	}
	s.Equal(2, byID["deck-1"].TotalCards)
	s.Equal(1, byID["deck-1"].Mastered)
	s.Equal(3, byID["deck-1"].TotalReviews)
	s.Equal(1, byID["deck-2"].TotalCards)
	s.Equal(0, byID["deck-2"].Mastered)
}

func (s *StatsRepositorySuite) TestDeckOverviewsLimit() {
	s.seedDeck("deck-1", []string{"a"})
	s.seedDeck("deck-2", []string{"b"})
	s.seedDeck("deck-3", []string{"c"})

	decks, err := s.repo.DeckOverviews(context.Background(), models.DeckFilter{Limit: 2})
	s.Require().NoError(err)
	s.Len(decks, 2)
}

func (s *StatsRepositorySuite) TestDeckOverviewsModeFilter() {
	s.seedDeck("deck-1", []string{"a"})

	decks, err := s.repo.DeckOverviews(context.Background(), models.DeckFilter{PracticeMode: "study"})
	s.Require().NoError(err)
	s.Len(decks, 1)

	decks, err = s.repo.DeckOverviews(context.Background(), models.DeckFilter{PracticeMode: "test"})
	s.Require().NoError(err)
	s.Empty(decks)
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositorySuite))
}
