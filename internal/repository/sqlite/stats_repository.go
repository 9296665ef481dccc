package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/FPTU-ChillGuys/studeehub-practice/internal/errors"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/logger"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/models"
	"github.com/FPTU-ChillGuys/studeehub-practice/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates the sqlite-backed StatsRepository implementation
func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) DeckOverviews(ctx context.Context, filter models.DeckFilter) ([]models.DeckOverview, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("listing deck overviews: mode=%q limit=%d", filter.PracticeMode, filter.Limit)

	query := sqlBuilder.Select(
		"d.deck_id",
		"COUNT(c.card_id) AS total_cards",
		"COALESCE(SUM(CASE WHEN c.mastery_level = 'mastered' THEN 1 ELSE 0 END), 0) AS mastered",
		"d.total_reviews",
		"d.last_practiced",
		"d.practice_mode",
	).
		From("deck_mastery d").
		LeftJoin("card_mastery c ON c.deck_id = d.deck_id").
		GroupBy("d.deck_id").
		OrderBy("d.last_practiced DESC", "d.deck_id ASC")

	if filter.PracticeMode != "" {
		query = query.Where(squirrel.Eq{"d.practice_mode": filter.PracticeMode})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query deck overviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.DeckOverview
	for rows.Next() {
		var o models.DeckOverview
		var lastPracticed sql.NullTime
		if err := rows.Scan(&o.DeckID, &o.TotalCards, &o.Mastered, &o.TotalReviews, &lastPracticed, &o.PracticeMode); err != nil {
			log.Error("failed to scan deck overview row: %v", err)
			return nil, err
		}
		if lastPracticed.Valid {
			o.LastPracticed = lastPracticed.Time
		}
		out = append(out, o)
	}
	log.Debug("found %d tracked decks", len(out))
	return out, rows.Err()
}

func (r *statsRepository) DeckStats(ctx context.Context, deckID string) (*models.DeckStat, error) {
	log := logger.FromContext(ctx).WithPrefix("stats_repo")
	log.Debug("computing deck stats: deck=%s", deckID)

	stat := &models.DeckStat{DeckID: deckID}
	var lastPracticed sql.NullTime
	var sumCorrect, sumIncorrect int
	err := r.db.QueryRowContext(ctx, `
SELECT
    d.total_reviews,
    d.last_practiced,
    COUNT(c.card_id),
    COALESCE(SUM(CASE WHEN c.mastery_level = 'not-started' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN c.mastery_level = 'learning' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN c.mastery_level = 'familiar' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN c.mastery_level = 'mastered' THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(c.correct), 0),
    COALESCE(SUM(c.incorrect), 0)
FROM deck_mastery d
LEFT JOIN card_mastery c ON c.deck_id = d.deck_id
WHERE d.deck_id = ?
GROUP BY d.deck_id
`, deckID).Scan(
		&stat.TotalReviews, &lastPracticed, &stat.TotalCards,
		&stat.Levels.NotStarted, &stat.Levels.Learning, &stat.Levels.Familiar, &stat.Levels.Mastered,
		&sumCorrect, &sumIncorrect,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("deck", deckID)
	}
	if err != nil {
		log.Error("failed to compute deck stats: %v", err)
		return nil, err
	}
	if lastPracticed.Valid {
		stat.LastPracticed = lastPracticed.Time
	}
	if total := sumCorrect + sumIncorrect; total > 0 {
		stat.OverallAccuracy = float64(sumCorrect) / float64(total)
	}
	return stat, nil
}
