package services

import (
	"context"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
)

// ===== REQUEST DTOS =====

type StartSessionRequest struct {
	QuizID string `json:"quiz_id" validate:"required"`
}

// AnswerRequest carries one answer mutation. Kind selects the variant; the
// matching payload field must be set.
type AnswerRequest struct {
	Kind      string                    `json:"kind" validate:"required,oneof=selection multi_toggle order pairing"`
	Selection *string                   `json:"selection,omitempty"`
	Toggle    *models.MultiChoiceAnswer `json:"toggle,omitempty"`
	Order     *models.OrderingAnswer    `json:"order,omitempty"`
	Pairing   *models.PairingAnswer     `json:"pairing,omitempty"`
}

type AudioRequest struct {
	Action string `json:"action" validate:"required,oneof=play pause toggle restart volume"`
	Volume *int   `json:"volume,omitempty" validate:"omitempty,volume_range"`
}

// ===== RESPONSE DTOS =====

// AnswerOption is an answer as shown to the participant. Correctness never
// leaves the service layer.
type AnswerOption struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// QuestionView is the sanitized presentation of the current question.
type QuestionView struct {
	ID      string              `json:"id"`
	Content string              `json:"content"`
	Type    models.QuestionType `json:"type"`
	Index   int                 `json:"index"`
	Total   int                 `json:"total"`

	// single_choice, multi_choice, audio_identification
	Options []AnswerOption `json:"options,omitempty"`

	// ordered_sequence: the participant's current arrangement
	Sequence []AnswerOption `json:"sequence,omitempty"`

	// pairing
	PairLefts   []string `json:"pair_lefts,omitempty"`
	PairTargets []string `json:"pair_targets,omitempty"`

	HasAudio      bool `json:"has_audio"`
	AudioDegraded bool `json:"audio_degraded,omitempty"`
}

// AudioStateView mirrors the audio coordinator for the client.
type AudioStateView struct {
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	Volume      int     `json:"volume"`
	Degraded    bool    `json:"degraded"`
}

// SessionView is the full snapshot returned by every session operation.
type SessionView struct {
	State    models.SessionState   `json:"state"`
	Question *QuestionView         `json:"question,omitempty"`
	Answered bool                  `json:"answered"`
	Report   *models.SessionReport `json:"report,omitempty"`
}

// ===== SERVICE INTERFACES =====

// SessionService owns the registry of live quiz sessions.
type SessionService interface {
	Start(ctx context.Context, req *StartSessionRequest, userID string) (*SessionView, error)
	Get(ctx context.Context, sessionID, userID string) (*SessionView, error)
	SubmitAnswer(ctx context.Context, sessionID, userID string, req *AnswerRequest) (*SessionView, error)
	Advance(ctx context.Context, sessionID, userID string) (*SessionView, error)
	AudioControl(ctx context.Context, sessionID, userID string, req *AudioRequest) (*AudioStateView, error)
	// Report submits the finished session's result, or re-submits after an
	// earlier submission failure. Idempotent once a submission succeeded.
	Report(ctx context.Context, sessionID, userID string) (*models.SessionReport, error)
}

// LeaderboardService serves rankings and per-user history.
type LeaderboardService interface {
	Leaderboard(ctx context.Context, quizID string, limit int) ([]repositories.LeaderboardEntry, error)
	UserResults(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.QuizResult, int64, error)
	QuizStats(ctx context.Context, quizID string) (*repositories.QuizStats, error)
}

// ExportService renders rankings as downloadable files.
type ExportService interface {
	ExportLeaderboardToExcel(ctx context.Context, quizID string) ([]byte, error)
}
