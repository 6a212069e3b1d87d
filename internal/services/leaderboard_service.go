package services

import (
	"context"
	"fmt"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/utils"
)

const defaultLeaderboardLimit = 50

type leaderboardService struct {
	quizzes repositories.QuizRepository
	results repositories.ResultRepository
	logger  utils.Logger
}

func NewLeaderboardService(
	quizzes repositories.QuizRepository,
	results repositories.ResultRepository,
	logger utils.Logger,
) LeaderboardService {
	return &leaderboardService{
		quizzes: quizzes,
		results: results,
		logger:  logger,
	}
}

func (s *leaderboardService) Leaderboard(ctx context.Context, quizID string, limit int) ([]repositories.LeaderboardEntry, error) {
	exists, err := s.quizzes.Exists(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("checking quiz: %w", err)
	}
	if !exists {
		return nil, ErrQuizNotFound
	}

	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	entries, err := s.results.Leaderboard(ctx, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}

	return entries, nil
}

func (s *leaderboardService) UserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.QuizResult, int64, error) {
	return s.results.GetByUser(ctx, userID, filters)
}

func (s *leaderboardService) QuizStats(ctx context.Context, quizID string) (*repositories.QuizStats, error) {
	exists, err := s.quizzes.Exists(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("checking quiz: %w", err)
	}
	if !exists {
		return nil, ErrQuizNotFound
	}

	return s.results.GetQuizStats(ctx, quizID)
}
