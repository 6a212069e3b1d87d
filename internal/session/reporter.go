package session

import (
	"context"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/utils"
)

// ResultSubmitter is the external persistence collaborator. It alone decides
// first-attempt status, which inherently requires cross-session history the
// engine does not hold. The engine calls it exactly once per finished
// session and never retries.
type ResultSubmitter interface {
	SubmitResult(ctx context.Context, quizID, userID string, result models.ScoreResult, breakdown []QuestionVerdict) (isFirstAttempt bool, err error)
}

// Reporter packages a finished session's score and elapsed time into a
// submission and converts the collaborator's first-attempt signal into a
// user-facing outcome.
type Reporter struct {
	submitter ResultSubmitter
	logger    utils.Logger
}

// NewReporter creates a result reporter.
func NewReporter(submitter ResultSubmitter, logger utils.Logger) *Reporter {
	return &Reporter{
		submitter: submitter,
		logger:    logger,
	}
}

// Report submits the finished session's result. On submission failure the
// error is a *SubmissionError and the session keeps its Finished state and
// score, so a presentation-driven re-submission reuses them without
// recomputation.
func (r *Reporter) Report(ctx context.Context, sess *Session) (*models.SessionReport, error) {
	result, err := sess.Result()
	if err != nil {
		return nil, err
	}
	breakdown, err := sess.Breakdown()
	if err != nil {
		return nil, err
	}

	quizID := sess.Definition().ID
	isFirst, err := r.submitter.SubmitResult(ctx, quizID, sess.UserID(), *result, breakdown)
	if err != nil {
		r.logger.Error("Result submission failed",
			"quiz_id", quizID,
			"user_id", sess.UserID(),
			"error", err)
		return nil, &SubmissionError{QuizID: quizID, Err: err}
	}

	report := &models.SessionReport{
		Result:         *result,
		IsFirstAttempt: isFirst,
		Outcome:        models.OutcomeNotCounted,
	}
	if isFirst {
		report.Outcome = models.OutcomeRecorded
	}

	r.logger.Info("Session result submitted",
		"quiz_id", quizID,
		"user_id", sess.UserID(),
		"correct", result.CorrectCount,
		"outcome", report.Outcome)

	return report, nil
}
