package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/utils"
)

// exportLeaderboardLimit bounds one spreadsheet; rankings past this depth
// have no consumer.
const exportLeaderboardLimit = 1000

type exportService struct {
	quizzes repositories.QuizRepository
	results repositories.ResultRepository
	logger  utils.Logger
}

func NewExportService(
	quizzes repositories.QuizRepository,
	results repositories.ResultRepository,
	logger utils.Logger,
) ExportService {
	return &exportService{
		quizzes: quizzes,
		results: results,
		logger:  logger,
	}
}

func (s *exportService) ExportLeaderboardToExcel(ctx context.Context, quizID string) ([]byte, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}

	entries, err := s.results.Leaderboard(ctx, quizID, exportLeaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrExportNothingToExport
	}

	f := excelize.NewFile()
	sheetName := "Leaderboard"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Leaderboard: %s", quiz.Title))

	headers := []string{"Rank", "User", "Score", "Total Questions", "Time Taken (s)", "Completed At"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c3", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, entry := range entries {
		row := []interface{}{
			entry.Rank,
			entry.UserID,
			entry.Score,
			entry.TotalQuestions,
			entry.TimeTaken,
			entry.CompletedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+4)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported leaderboard",
		"quiz_id", quizID,
		"rows", len(entries))

	return buf.Bytes(), nil
}
