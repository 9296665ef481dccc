package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository/sqlite"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/testutil"
)

type SessionStoreSuite struct {
	suite.Suite
	db    *sql.DB
	store repository.SessionStore
}

func (s *SessionStoreSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.store = sqlite.NewSessionStore(s.db)
}

func (s *SessionStoreSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionStoreSuite) TestSaveAndLoad() {
	ctx := context.Background()

	snap := models.SessionSnapshot{
		DeckID: "deck-1",
		Stats:  models.SessionStats{Correct: 2, Incorrect: 1, Studied: 3},
		History: []models.AnswerRecord{
			{CardID: "a", IsCorrect: true, Snapshot: models.NewCardMastery("a")},
			{CardID: "b", IsCorrect: false, Snapshot: models.CardMastery{CardID: "b", Correct: 1, Streak: 1, MasteryLevel: models.LevelLearning}},
		},
	}
	s.Require().NoError(s.store.Save(ctx, snap))

	loaded, err := s.store.Load(ctx, "deck-1")
	s.Require().NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(snap.Stats, loaded.Stats)
	s.Equal(snap.History, loaded.History)
}

func (s *SessionStoreSuite) TestSaveOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, models.SessionSnapshot{DeckID: "deck-1", Stats: models.SessionStats{Studied: 1}}))
	s.Require().NoError(s.store.Save(ctx, models.SessionSnapshot{DeckID: "deck-1", Stats: models.SessionStats{Studied: 5}}))

	loaded, err := s.store.Load(ctx, "deck-1")
	s.Require().NoError(err)
	s.Equal(5, loaded.Stats.Studied)
}

func (s *SessionStoreSuite) TestLoadMissing() {
	loaded, err := s.store.Load(context.Background(), "nope")
	s.Require().NoError(err)
	s.Nil(loaded)
}

func (s *SessionStoreSuite) TestDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, models.SessionSnapshot{DeckID: "deck-1"}))

	s.Require().NoError(s.store.Delete(ctx, "deck-1"))

	loaded, err := s.store.Load(ctx, "deck-1")
	s.Require().NoError(err)
	s.Nil(loaded)
}

func (s *SessionStoreSuite) TestDeleteStale() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, models.SessionSnapshot{DeckID: "old"}))
	s.Require().NoError(s.store.Save(ctx, models.SessionSnapshot{DeckID: "fresh"}))

	// Age one row behind the cutoff.
	_, err := s.db.Exec(`UPDATE practice_sessions SET updated_at = ? WHERE deck_id = ?`,
		time.Now().UTC().Add(-48*time.Hour), "old")
	s.Require().NoError(err)

	n, err := s.store.DeleteStale(ctx, time.Now().UTC().Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)

	loaded, err := s.store.Load(ctx, "old")
	s.Require().NoError(err)
	s.Nil(loaded)

	loaded, err = s.store.Load(ctx, "fresh")
	s.Require().NoError(err)
	s.NotNil(loaded)
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}
