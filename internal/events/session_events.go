package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of session event on the wire.
type EventType string

const (
	EventSessionStarted  EventType = "session.started"
	EventSessionFinished EventType = "session.finished"
	EventResultRecorded  EventType = "result.recorded"
)

// SessionEvent is the envelope for all session lifecycle events.
type SessionEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Session event payloads

type SessionStartedEvent struct {
	SessionID string    `json:"session_id"`
	QuizID    string    `json:"quiz_id"`
	QuizTitle string    `json:"quiz_title"`
	UserID    string    `json:"user_id"`
	Questions int       `json:"questions"`
	HasTimer  bool      `json:"has_timer"`
	StartedAt time.Time `json:"started_at"`
}

type SessionFinishedEvent struct {
	SessionID      string    `json:"session_id"`
	QuizID         string    `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	FinishedAt     time.Time `json:"finished_at"`
}

type ResultRecordedEvent struct {
	QuizID         string    `json:"quiz_id"`
	UserID         string    `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	IsFirstAttempt bool      `json:"is_first_attempt"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Event factory functions

func NewSessionStartedEvent(sessionID, quizID, quizTitle, userID string, questions int, hasTimer bool) *SessionEvent {
	return &SessionEvent{
		ID:        GenerateEventID(),
		Type:      EventSessionStarted,
		Timestamp: time.Now(),
		Source:    "session-service",
		Version:   "1.0",
		Data: SessionStartedEvent{
			SessionID: sessionID,
			QuizID:    quizID,
			QuizTitle: quizTitle,
			UserID:    userID,
			Questions: questions,
			HasTimer:  hasTimer,
			StartedAt: time.Now(),
		},
	}
}

func NewSessionFinishedEvent(sessionID, quizID, quizTitle, userID string, score, total, elapsedSeconds int) *SessionEvent {
	return &SessionEvent{
		ID:        GenerateEventID(),
		Type:      EventSessionFinished,
		Timestamp: time.Now(),
		Source:    "session-service",
		Version:   "1.0",
		Data: SessionFinishedEvent{
			SessionID:      sessionID,
			QuizID:         quizID,
			QuizTitle:      quizTitle,
			UserID:         userID,
			Score:          score,
			TotalQuestions: total,
			ElapsedSeconds: elapsedSeconds,
			FinishedAt:     time.Now(),
		},
	}
}

func NewResultRecordedEvent(quizID, userID string, score, total int, isFirstAttempt bool) *SessionEvent {
	return &SessionEvent{
		ID:        GenerateEventID(),
		Type:      EventResultRecorded,
		Timestamp: time.Now(),
		Source:    "session-service",
		Version:   "1.0",
		Data: ResultRecordedEvent{
			QuizID:         quizID,
			UserID:         userID,
			Score:          score,
			TotalQuestions: total,
			IsFirstAttempt: isFirstAttempt,
			RecordedAt:     time.Now(),
		},
	}
}

// GenerateEventID returns a unique identifier for an event envelope.
func GenerateEventID() string {
	return uuid.NewString()
}
