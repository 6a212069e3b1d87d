package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/utils"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitResult(ctx context.Context, quizID, userID string, result models.ScoreResult, breakdown []QuestionVerdict) (bool, error) {
	args := m.Called(ctx, quizID, userID, result, breakdown)
	return args.Bool(0), args.Error(1)
}

func finishedSession(t *testing.T) *Session {
	t.Helper()

	sess, err := New(fourTypeQuiz(false), testConfig())
	require.NoError(t, err)

	require.NoError(t, sess.RecordSelection("Paris"))
	for i := 0; i < 4; i++ {
		_, err = sess.Advance()
		require.NoError(t, err)
	}
	require.True(t, sess.State().Finished)
	return sess
}

func TestReporter_FirstAttemptRecorded(t *testing.T) {
	sess := finishedSession(t)
	submitter := new(mockSubmitter)
	submitter.On("SubmitResult", mock.Anything, "quiz-4", "user-1", mock.Anything, mock.Anything).
		Return(true, nil)

	reporter := NewReporter(submitter, utils.NewDefaultLogger())
	report, err := reporter.Report(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeRecorded, report.Outcome)
	assert.True(t, report.IsFirstAttempt)
	assert.Equal(t, 1, report.Result.CorrectCount)
	submitter.AssertExpectations(t)
}

func TestReporter_RepeatAttemptNotCounted(t *testing.T) {
	sess := finishedSession(t)
	submitter := new(mockSubmitter)
	submitter.On("SubmitResult", mock.Anything, "quiz-4", "user-1", mock.Anything, mock.Anything).
		Return(false, nil)

	reporter := NewReporter(submitter, utils.NewDefaultLogger())
	report, err := reporter.Report(context.Background(), sess)

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeNotCounted, report.Outcome)
	assert.False(t, report.IsFirstAttempt)
	assert.Equal(t, 4, report.Result.TotalQuestions, "score is identical either way")
}

func TestReporter_SubmissionFailureKeepsSessionState(t *testing.T) {
	sess := finishedSession(t)
	submitter := new(mockSubmitter)
	submitter.On("SubmitResult", mock.Anything, "quiz-4", "user-1", mock.Anything, mock.Anything).
		Return(false, errors.New("connection refused"))

	reporter := NewReporter(submitter, utils.NewDefaultLogger())
	report, err := reporter.Report(context.Background(), sess)

	require.Nil(t, report)
	var se *SubmissionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "quiz-4", se.QuizID)

	// the session still holds its result; a retry reuses it
	state := sess.State()
	require.True(t, state.Finished)
	require.NotNil(t, state.Score)
	assert.Equal(t, 1, *state.Score)
}

func TestReporter_UnfinishedSessionRejected(t *testing.T) {
	sess, err := New(fourTypeQuiz(false), testConfig())
	require.NoError(t, err)

	reporter := NewReporter(new(mockSubmitter), utils.NewDefaultLogger())
	_, err = reporter.Report(context.Background(), sess)
	assert.ErrorIs(t, err, ErrSessionNotFinished)
}
