package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quizdeck/session-service/internal/services"
	"github.com/quizdeck/session-service/internal/utils"
)

type HandlerManager struct {
	sessionHandler     *SessionHandler
	leaderboardHandler *LeaderboardHandler
	jwtSecret          string
	logger             utils.Logger
}

func NewHandlerManager(
	sessionService services.SessionService,
	leaderboardService services.LeaderboardService,
	exportService services.ExportService,
	jwtSecret string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler:     NewSessionHandler(sessionService, logger),
		leaderboardHandler: NewLeaderboardHandler(leaderboardService, exportService, logger),
		jwtSecret:          jwtSecret,
		logger:             logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "session-service",
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.jwtSecret, hm.logger))
	{
		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/answer", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/advance", hm.sessionHandler.Advance)
			sessions.POST("/:id/audio", hm.sessionHandler.AudioControl)
			sessions.POST("/:id/report", hm.sessionHandler.GetReport)
		}

		// Leaderboard and results routes
		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/leaderboard", hm.leaderboardHandler.GetLeaderboard)
			quizzes.GET("/:quiz_id/leaderboard/export", hm.leaderboardHandler.ExportLeaderboard)
			quizzes.GET("/:quiz_id/stats", hm.leaderboardHandler.GetQuizStats)
		}

		results := v1.Group("/results")
		{
			results.GET("/me", hm.leaderboardHandler.GetMyResults)
		}
	}
}
