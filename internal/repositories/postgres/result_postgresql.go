package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

// Submit inserts the result inside a transaction. The first-attempt check
// locks the user's existing rows for the quiz so two concurrent submissions
// cannot both come back flagged as first.
func (r ResultPostgreSQL) Submit(ctx context.Context, result *models.QuizResult) (bool, error) {
	var isFirst bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.QuizResult
		if err := tx.Select("id").
			Where("quiz_id = ? AND user_id = ?", result.QuizID, result.UserID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&existing).Error; err != nil {
			return err
		}

		isFirst = len(existing) == 0
		result.IsFirstAttempt = isFirst

		return tx.Create(result).Error
	})
	if err != nil {
		return false, err
	}

	return isFirst, nil
}

func (r ResultPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.QuizResult, int64, error) {
	var results []*models.QuizResult
	var total int64

	query := r.db.WithContext(ctx).Model(&models.QuizResult{}).Where("user_id = ?", userID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("completed_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// Leaderboard ranks first attempts only, best score first, faster completion
// breaking ties.
func (r ResultPostgreSQL) Leaderboard(ctx context.Context, quizID string, limit int) ([]repositories.LeaderboardEntry, error) {
	var results []*models.QuizResult

	query := r.db.WithContext(ctx).
		Where("quiz_id = ? AND is_first_attempt = ?", quizID, true).
		Order("score DESC, time_taken ASC, completed_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	entries := make([]repositories.LeaderboardEntry, len(results))
	for i, res := range results {
		entries[i] = repositories.LeaderboardEntry{
			Rank:           i + 1,
			UserID:         res.UserID,
			Score:          res.Score,
			TotalQuestions: res.TotalQuestions,
			TimeTaken:      res.TimeTaken,
			CompletedAt:    res.CompletedAt,
		}
	}

	return entries, nil
}

func (r ResultPostgreSQL) GetQuizStats(ctx context.Context, quizID string) (*repositories.QuizStats, error) {
	var stats repositories.QuizStats

	err := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Select("COUNT(*) as total_attempts, COUNT(DISTINCT user_id) as unique_players, COALESCE(AVG(score), 0) as average_score, COALESCE(AVG(time_taken), 0) as average_seconds").
		Where("quiz_id = ?", quizID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r ResultPostgreSQL) HasResult(ctx context.Context, quizID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuizResult{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.FirstOnly {
		query = query.Where("is_first_attempt = ?", true)
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}
	return query
}
