package models

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionFinished   SessionStatus = "finished"
)

// SessionState is the externally visible snapshot of a running session.
// Index is 0-based and monotonic non-decreasing; Score is nil until the
// session is finished. The state lives only as long as the session instance
// and is never persisted by the engine.
type SessionState struct {
	SessionID     string        `json:"session_id"`
	QuizID        string        `json:"quiz_id"`
	Status        SessionStatus `json:"status"`
	Index         int           `json:"index"`
	TimeRemaining int           `json:"time_remaining"`
	Finished      bool          `json:"finished"`
	Score         *int          `json:"score,omitempty"`
}

// ScoreResult is the raw correct-question tally for a finished session.
// No weighting or normalization is applied.
type ScoreResult struct {
	CorrectCount   int `json:"correct_count"`
	TotalQuestions int `json:"total_questions"`
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// AttemptOutcome classifies how a submitted result was received by the
// persistence collaborator. Only first attempts count toward ranking.
type AttemptOutcome string

const (
	OutcomeRecorded   AttemptOutcome = "recorded"
	OutcomeNotCounted AttemptOutcome = "not_counted"
)

// SessionReport is what the reporter hands back to the presentation layer
// after the terminal submission.
type SessionReport struct {
	Result         ScoreResult    `json:"result"`
	Outcome        AttemptOutcome `json:"outcome"`
	IsFirstAttempt bool           `json:"is_first_attempt"`
}
