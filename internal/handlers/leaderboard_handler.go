package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/services"
	"github.com/quizdeck/session-service/internal/utils"
)

type LeaderboardHandler struct {
	BaseHandler
	leaderboardService services.LeaderboardService
	exportService      services.ExportService
}

func NewLeaderboardHandler(
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	logger utils.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		BaseHandler:        NewBaseHandler(logger),
		leaderboardService: leaderboardService,
		exportService:      exportService,
	}
}

// GetLeaderboard returns the ranked first attempts for a quiz
// @Summary Get leaderboard
// @Tags leaderboard
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {array} repositories.LeaderboardEntry
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{quiz_id}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.leaderboardService.Leaderboard(c.Request.Context(), quizID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetQuizStats returns aggregate statistics for a quiz
// @Summary Get quiz stats
// @Tags leaderboard
// @Produce json
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {object} repositories.QuizStats
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{quiz_id}/stats [get]
func (h *LeaderboardHandler) GetQuizStats(c *gin.Context) {
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	stats, err := h.leaderboardService.QuizStats(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetMyResults returns the authenticated user's result history
// @Summary Get own results
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Router /results/me [get]
func (h *LeaderboardHandler) GetMyResults(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	results, total, err := h.leaderboardService.UserResults(c.Request.Context(), userID, repositories.ResultFilters{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   total,
	})
}

// ExportLeaderboard streams the leaderboard as an Excel file
// @Summary Export leaderboard
// @Tags leaderboard
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param quiz_id path string true "Quiz ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{quiz_id}/leaderboard/export [get]
func (h *LeaderboardHandler) ExportLeaderboard(c *gin.Context) {
	quizID := ParseStringIDParam(c, "quiz_id")
	if quizID == "" {
		return
	}

	h.LogRequest(c, "Exporting leaderboard", "quiz_id", quizID)

	data, err := h.exportService.ExportLeaderboardToExcel(c.Request.Context(), quizID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard-%s.xlsx", quizID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *LeaderboardHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, services.ErrExportNothingToExport):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No results recorded for quiz",
		})
	default:
		h.LogError(c, err, "Unhandled leaderboard service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
