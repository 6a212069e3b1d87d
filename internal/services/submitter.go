package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/session"
)

// resultSubmitter adapts the result repository to the engine's submitter
// contract, serializing the per-question breakdown into the stored row.
type resultSubmitter struct {
	results repositories.ResultRepository
}

func newResultSubmitter(results repositories.ResultRepository) session.ResultSubmitter {
	return &resultSubmitter{results: results}
}

func (s *resultSubmitter) SubmitResult(ctx context.Context, quizID, userID string, result models.ScoreResult, breakdown []session.QuestionVerdict) (bool, error) {
	payload, err := json.Marshal(breakdown)
	if err != nil {
		return false, fmt.Errorf("marshaling breakdown: %w", err)
	}

	row := &models.QuizResult{
		QuizID:         quizID,
		UserID:         userID,
		Score:          result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		TimeTaken:      result.ElapsedSeconds,
		Breakdown:      datatypes.JSON(payload),
		CompletedAt:    time.Now(),
	}

	return s.results.Submit(ctx, row)
}
