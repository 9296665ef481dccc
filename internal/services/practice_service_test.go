package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository/memory"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/services"
)

func newPracticeService() services.PracticeService {
	return services.NewPracticeService(memory.NewMasteryStore(), memory.NewSessionStore())
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	view, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "deck-1", view.DeckID)
	assert.Equal(t, "all", view.Mode)
	assert.Equal(t, []string{"a", "b"}, view.CardOrder)
	assert.Equal(t, "a", view.CurrentCardID)
	assert.False(t, view.Complete)
}

func TestStartSession_InvalidMode(t *testing.T) {
	svc := newPracticeService()

	_, err := svc.StartSession(context.Background(), "deck-1", []string{"a"}, "cram")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestStartSession_ReplacesOpenDeckSession(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	first, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)

	_, err = svc.Flip(ctx, first.SessionID)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, first.SessionID, true)
	require.NoError(t, err)

	second, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)

	// The old id is dead, but the deck's running score survives the
	// replacement and the new run resumes it from the first card.
	_, err = svc.GetSession(ctx, first.SessionID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))

	assert.Equal(t, models.SessionStats{Correct: 1, Studied: 1}, second.Stats)
	assert.Equal(t, 0, second.Cursor)
	assert.Equal(t, "a", second.CurrentCardID)

	_, err = svc.GetSession(ctx, second.SessionID)
	assert.NoError(t, err)
}

func TestAnswerFlow(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	view, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)
	id := view.SessionID

	view, err = svc.Flip(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Flipped)

	view, err = svc.Answer(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStats{Correct: 1, Studied: 1}, view.Stats)
	assert.Equal(t, "b", view.CurrentCardID)

	view, err = svc.Undo(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStats{}, view.Stats)
	assert.Equal(t, "a", view.CurrentCardID)
}

func TestToggleModeAndRestart(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	view, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)
	id := view.SessionID

	view, err = svc.ToggleMode(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "review", view.Mode)

	view, err = svc.Restart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Cursor)
	assert.Equal(t, "review", view.Mode, "restart keeps the current mode")
}

func TestExit(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	view, err := svc.StartSession(ctx, "deck-1", []string{"a"}, "all")
	require.NoError(t, err)

	require.NoError(t, svc.Exit(ctx, view.SessionID))

	_, err = svc.GetSession(ctx, view.SessionID)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))

	// The deck is free for a new session.
	_, err = svc.StartSession(ctx, "deck-1", []string{"a"}, "all")
	assert.NoError(t, err)
}

func TestSummaryAfterCompletion(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	view, err := svc.StartSession(ctx, "deck-1", []string{"a", "b"}, "all")
	require.NoError(t, err)
	id := view.SessionID

	for i := 0; i < 2; i++ {
		_, err = svc.Flip(ctx, id)
		require.NoError(t, err)
		view, err = svc.Answer(ctx, id, true)
		require.NoError(t, err)
	}
	require.True(t, view.Complete)

	summary, err := svc.Summary(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCards)
	assert.Equal(t, models.SessionStats{Correct: 2, Studied: 2}, summary.Stats)
	assert.InDelta(t, 1.0, summary.Accuracy, 1e-9)
}

func TestSessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc := newPracticeService()

	_, err := svc.Flip(ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
	_, err = svc.Answer(ctx, "missing", true)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
	err = svc.Exit(ctx, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
}
