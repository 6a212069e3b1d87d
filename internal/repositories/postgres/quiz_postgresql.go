package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q QuizPostgreSQL) Create(ctx context.Context, quiz *models.QuizRecord) error {
	return q.db.WithContext(ctx).Create(quiz).Error
}

func (q QuizPostgreSQL) GetByID(ctx context.Context, id string) (*models.QuizRecord, error) {
	var quiz models.QuizRecord
	if err := q.db.WithContext(ctx).First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

func (q QuizPostgreSQL) GetByIDWithDetails(ctx context.Context, id string) (*models.QuizRecord, error) {
	var quiz models.QuizRecord
	if err := q.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.position ASC")
		}).
		First(&quiz, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &quiz, nil
}

func (q QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.QuizRecord, int64, error) {
	var quizzes []*models.QuizRecord
	var total int64

	// apply filter first
	query := q.db.WithContext(ctx).Model(&models.QuizRecord{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = q.applyPaginationAndSort(query, filters)

	if err := query.Find(&quizzes).Error; err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

func (q QuizPostgreSQL) Delete(ctx context.Context, id string) error {
	return q.db.WithContext(ctx).Delete(&models.QuizRecord{}, "id = ?", id).Error
}

func (q QuizPostgreSQL) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).
		Model(&models.QuizRecord{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (q QuizPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	if filters.CreatorID != nil {
		query = query.Where("creator_id = ?", *filters.CreatorID)
	}
	if filters.HasTimer != nil {
		query = query.Where("has_timer = ?", *filters.HasTimer)
	}
	return query
}

func (q QuizPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.QuizFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "title", "created_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.Order(sortBy + " " + sortOrder)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

// IsNotFound reports whether err is the record-not-found error from the
// underlying store.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
