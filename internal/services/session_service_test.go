package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizdeck/session-service/internal/cache"
	"github.com/quizdeck/session-service/internal/events"
	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/session"
	"github.com/quizdeck/session-service/internal/utils"
	appvalidator "github.com/quizdeck/session-service/internal/validator"
)

// ===== FAKES =====

type memCache struct {
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

type fakeResultRepo struct {
	rows      []*models.QuizResult
	submitErr error
}

func (f *fakeResultRepo) Submit(ctx context.Context, result *models.QuizResult) (bool, error) {
	if f.submitErr != nil {
		return false, f.submitErr
	}
	isFirst := true
	for _, row := range f.rows {
		if row.QuizID == result.QuizID && row.UserID == result.UserID {
			isFirst = false
			break
		}
	}
	result.IsFirstAttempt = isFirst
	f.rows = append(f.rows, result)
	return isFirst, nil
}

func (f *fakeResultRepo) GetByUser(ctx context.Context, userID string, filters repositories.ResultFilters) ([]*models.QuizResult, int64, error) {
	var out []*models.QuizResult
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResultRepo) Leaderboard(ctx context.Context, quizID string, limit int) ([]repositories.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeResultRepo) GetQuizStats(ctx context.Context, quizID string) (*repositories.QuizStats, error) {
	return &repositories.QuizStats{}, nil
}

func (f *fakeResultRepo) HasResult(ctx context.Context, quizID, userID string) (bool, error) {
	for _, row := range f.rows {
		if row.QuizID == quizID && row.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ===== FIXTURES =====

func serviceQuiz() *models.QuizDefinition {
	return &models.QuizDefinition{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []models.Question{
			{
				ID: "q1", Content: "Capital of France?", Type: models.SingleChoice,
				Answers: []models.Answer{
					{ID: "a1", Content: "Paris", IsCorrect: true},
					{ID: "a2", Content: "Lyon"},
				},
			},
			{
				ID: "q2", Content: "Match country and capital", Type: models.Pairing,
				Answers: []models.Answer{
					{ID: "p1", Content: "Italy", PairTarget: "Rome"},
					{ID: "p2", Content: "Spain", PairTarget: "Madrid"},
				},
			},
		},
	}
}

func audioServiceQuiz() *models.QuizDefinition {
	return &models.QuizDefinition{
		ID:    "quiz-2",
		Title: "Blind test",
		Questions: []models.Question{
			{
				ID: "q1", Content: "Name the instrument", Type: models.AudioIdentification,
				AudioRef: &models.AudioRef{FileName: "intro.mp3"},
				Answers: []models.Answer{
					{ID: "a1", Content: "Cello", IsCorrect: true},
					{ID: "a2", Content: "Viola"},
				},
			},
		},
	}
}

type serviceHarness struct {
	svc       SessionService
	results   *fakeResultRepo
	publisher *events.MockEventPublisher
}

func newHarness(t *testing.T, defs map[string]*models.QuizDefinition) *serviceHarness {
	t.Helper()

	logger := utils.NewDefaultLogger()
	publisher := events.NewMockEventPublisher(slog.Default())
	results := &fakeResultRepo{}

	quizzes := cache.NewQuizCache(newMemCache(), func(ctx context.Context, quizID string) (*models.QuizDefinition, error) {
		def, ok := defs[quizID]
		if !ok {
			return nil, errors.New("no such quiz")
		}
		return def, nil
	}, logger)

	svc := NewSessionService(quizzes, results, publisher, appvalidator.New(), logger, SessionServiceConfig{
		MaxActivePerUser: 3,
		Shuffle:          session.IdentityShuffler,
	})

	return &serviceHarness{svc: svc, results: results, publisher: publisher}
}

func eventTypes(publisher *events.MockEventPublisher) []events.EventType {
	published := publisher.GetPublishedEvents()
	types := make([]events.EventType, len(published))
	for i, ev := range published {
		types[i] = ev.Type
	}
	return types
}

// ===== TESTS =====

func TestSessionService_FullPlaythrough(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	require.NoError(t, err)
	sessionID := view.State.SessionID

	require.NotNil(t, view.Question)
	assert.Equal(t, "q1", view.Question.ID)
	assert.Len(t, view.Question.Options, 2)
	assert.False(t, view.Answered)

	sel := "Paris"
	view, err = h.svc.SubmitAnswer(ctx, sessionID, "user-1", &AnswerRequest{Kind: "selection", Selection: &sel})
	require.NoError(t, err)
	assert.True(t, view.Answered)

	view, err = h.svc.Advance(ctx, sessionID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, view.Question)
	assert.Equal(t, "q2", view.Question.ID)
	assert.Equal(t, []string{"Italy", "Spain"}, view.Question.PairLefts)
	assert.Len(t, view.Question.PairTargets, 2)

	view, err = h.svc.SubmitAnswer(ctx, sessionID, "user-1", &AnswerRequest{
		Kind: "pairing", Pairing: &models.PairingAnswer{Left: "Italy", Target: "Rome"}})
	require.NoError(t, err)
	view, err = h.svc.SubmitAnswer(ctx, sessionID, "user-1", &AnswerRequest{
		Kind: "pairing", Pairing: &models.PairingAnswer{Left: "Spain", Target: "Madrid"}})
	require.NoError(t, err)

	view, err = h.svc.Advance(ctx, sessionID, "user-1")
	require.NoError(t, err)
	require.True(t, view.State.Finished)
	require.NotNil(t, view.State.Score)
	assert.Equal(t, 2, *view.State.Score)

	require.NotNil(t, view.Report)
	assert.Equal(t, models.OutcomeRecorded, view.Report.Outcome)

	require.Len(t, h.results.rows, 1)
	assert.True(t, h.results.rows[0].IsFirstAttempt)
	assert.NotEmpty(t, h.results.rows[0].Breakdown)

	assert.Equal(t, []events.EventType{
		events.EventSessionStarted,
		events.EventSessionFinished,
		events.EventResultRecorded,
	}, eventTypes(h.publisher))
}

func TestSessionService_SecondAttemptNotCounted(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	runThrough := func() *SessionView {
		view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
		require.NoError(t, err)
		id := view.State.SessionID
		for !view.State.Finished {
			view, err = h.svc.Advance(ctx, id, "user-1")
			require.NoError(t, err)
		}
		return view
	}

	first := runThrough()
	require.NotNil(t, first.Report)
	assert.Equal(t, models.OutcomeRecorded, first.Report.Outcome)

	second := runThrough()
	require.NotNil(t, second.Report)
	assert.Equal(t, models.OutcomeNotCounted, second.Report.Outcome)
	assert.False(t, second.Report.IsFirstAttempt)
}

func TestSessionService_ReportRetryAfterFailure(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	h.results.submitErr = errors.New("connection refused")

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	require.NoError(t, err)
	sessionID := view.State.SessionID

	for !view.State.Finished {
		view, err = h.svc.Advance(ctx, sessionID, "user-1")
		require.NoError(t, err)
	}
	// the finish itself succeeded; only the submission failed
	assert.Nil(t, view.Report)

	_, err = h.svc.Report(ctx, sessionID, "user-1")
	var se *session.SubmissionError
	require.ErrorAs(t, err, &se)

	h.results.submitErr = nil
	report, err := h.svc.Report(ctx, sessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeRecorded, report.Outcome)

	// a repeated call reuses the cached report instead of resubmitting
	again, err := h.svc.Report(ctx, sessionID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, report, again)
	assert.Len(t, h.results.rows, 1)
}

func TestSessionService_OwnershipEnforced(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	require.NoError(t, err)

	_, err = h.svc.Get(ctx, view.State.SessionID, "user-2")
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	_, err = h.svc.Get(ctx, "missing-session", "user-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_UnknownQuiz(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{})

	_, err := h.svc.Start(context.Background(), &StartSessionRequest{QuizID: "missing"}, "user-1")
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSessionService_ActiveLimit(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
		require.NoError(t, err)
	}

	_, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	assert.ErrorIs(t, err, ErrSessionLimitExceeded)

	// other users are unaffected
	_, err = h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-2")
	assert.NoError(t, err)
}

func TestSessionService_AudioVolumeControl(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-2": audioServiceQuiz()})
	ctx := context.Background()

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-2"}, "user-1")
	require.NoError(t, err)
	sessionID := view.State.SessionID

	state, err := h.svc.AudioControl(ctx, sessionID, "user-1", &AudioRequest{Action: "play"})
	require.NoError(t, err)
	assert.True(t, state.Playing)
	assert.Equal(t, 100, state.Volume)

	vol := 40
	state, err = h.svc.AudioControl(ctx, sessionID, "user-1", &AudioRequest{Action: "volume", Volume: &vol})
	require.NoError(t, err)
	assert.Equal(t, 40, state.Volume)

	tooLoud := 150
	_, err = h.svc.AudioControl(ctx, sessionID, "user-1", &AudioRequest{Action: "volume", Volume: &tooLoud})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = h.svc.AudioControl(ctx, sessionID, "user-1", &AudioRequest{Action: "volume"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestSessionService_AudioControlWithoutAudioQuestion(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	require.NoError(t, err)

	_, err = h.svc.AudioControl(ctx, view.State.SessionID, "user-1", &AudioRequest{Action: "play"})
	assert.ErrorIs(t, err, session.ErrNoAudioQuestion)
}

func TestSessionService_InvalidAnswerKind(t *testing.T) {
	h := newHarness(t, map[string]*models.QuizDefinition{"quiz-1": serviceQuiz()})
	ctx := context.Background()

	view, err := h.svc.Start(ctx, &StartSessionRequest{QuizID: "quiz-1"}, "user-1")
	require.NoError(t, err)

	_, err = h.svc.SubmitAnswer(ctx, view.State.SessionID, "user-1", &AnswerRequest{Kind: "bogus"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
