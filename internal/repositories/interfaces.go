package repositories

import (
	"context"
	"time"

	"github.com/quizdeck/session-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type QuizFilters struct {
	CreatorID *string `json:"creator_id"`
	HasTimer  *bool   `json:"has_timer"`
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "title"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

type ResultFilters struct {
	QuizID    *string    `json:"quiz_id"`
	UserID    *string    `json:"user_id"`
	FirstOnly bool       `json:"first_only"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// ===== SHARED RESULT STRUCTS =====

// LeaderboardEntry is one ranked row. Only first attempts are ranked; ties
// on score break on the lower completion time.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      int       `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
}

type QuizStats struct {
	TotalAttempts  int     `json:"total_attempts"`
	UniquePlayers  int     `json:"unique_players"`
	AverageScore   float64 `json:"average_score"`
	AverageSeconds float64 `json:"average_seconds"`
}

// QuizRepository provides read access to stored quiz definitions.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.QuizRecord) error
	GetByID(ctx context.Context, id string) (*models.QuizRecord, error)
	// GetByIDWithDetails loads questions and answers in position order,
	// ready for ToDefinition.
	GetByIDWithDetails(ctx context.Context, id string) (*models.QuizRecord, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.QuizRecord, int64, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// ResultRepository persists finished-session results and serves rankings.
type ResultRepository interface {
	// Submit stores the result and reports whether it was the user's first
	// attempt at the quiz. The check and the insert run in one transaction
	// so two concurrent submissions cannot both claim first-attempt status.
	Submit(ctx context.Context, result *models.QuizResult) (isFirstAttempt bool, err error)

	GetByUser(ctx context.Context, userID string, filters ResultFilters) ([]*models.QuizResult, int64, error)
	Leaderboard(ctx context.Context, quizID string, limit int) ([]LeaderboardEntry, error)
	GetQuizStats(ctx context.Context, quizID string) (*QuizStats, error)
	HasResult(ctx context.Context, quizID, userID string) (bool, error)
}
