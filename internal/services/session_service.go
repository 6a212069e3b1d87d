package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/quizdeck/session-service/internal/cache"
	"github.com/quizdeck/session-service/internal/events"
	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/repositories"
	"github.com/quizdeck/session-service/internal/session"
	"github.com/quizdeck/session-service/internal/utils"
	appvalidator "github.com/quizdeck/session-service/internal/validator"
)

// SessionServiceConfig tunes the session registry.
type SessionServiceConfig struct {
	// AssetBaseURL is where audio file names are resolved.
	AssetBaseURL string
	// MaxActivePerUser caps unfinished sessions per participant; 0 means
	// unlimited.
	MaxActivePerUser int
	// Engine overrides for tests. Nil fields use production defaults.
	Ticks       session.TickSourceFactory
	Shuffle     session.Shuffler
	AssetLoader session.AssetLoader
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	reports  map[string]*models.SessionReport

	quizzes   *cache.QuizCache
	reporter  *session.Reporter
	publisher events.EventPublisher
	validator *appvalidator.Validator
	logger    utils.Logger
	config    SessionServiceConfig
}

func NewSessionService(
	quizzes *cache.QuizCache,
	results repositories.ResultRepository,
	publisher events.EventPublisher,
	validator *appvalidator.Validator,
	logger utils.Logger,
	config SessionServiceConfig,
) SessionService {
	return &sessionService{
		sessions:  make(map[string]*session.Session),
		reports:   make(map[string]*models.SessionReport),
		quizzes:   quizzes,
		reporter:  session.NewReporter(newResultSubmitter(results), logger),
		publisher: publisher,
		validator: validator,
		logger:    logger,
		config:    config,
	}
}

// ===== CORE SESSION OPERATIONS =====

func (s *sessionService) Start(ctx context.Context, req *StartSessionRequest, userID string) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if err := s.checkActiveLimit(userID); err != nil {
		return nil, err
	}

	def, err := s.quizzes.GetDefinition(ctx, req.QuizID)
	if err != nil {
		return nil, ErrQuizNotFound
	}

	sess, err := session.New(def, session.Config{
		UserID:       userID,
		Ticks:        s.config.Ticks,
		Shuffle:      s.config.Shuffle,
		AssetLoader:  s.config.AssetLoader,
		AssetBaseURL: s.config.AssetBaseURL,
		Logger:       s.logger,
	})
	if err != nil {
		// an unplayable definition is rejected before any question is shown
		return nil, err
	}

	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()

	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionStartedEvent(
		sess.ID(), def.ID, def.Title, userID, def.QuestionCount(), def.HasTimer)); err != nil {
		s.logger.Warn("Failed to publish session started event", "session_id", sess.ID(), "error", err)
	}

	return s.view(sess), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, sessionID, userID string, req *AnswerRequest) (*SessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case "selection":
		if req.Selection == nil {
			return nil, fmt.Errorf("%w: selection payload missing", ErrBadRequest)
		}
		err = sess.RecordSelection(*req.Selection)
	case "multi_toggle":
		if req.Toggle == nil {
			return nil, fmt.Errorf("%w: toggle payload missing", ErrBadRequest)
		}
		err = sess.RecordMultiToggle(req.Toggle.Index, req.Toggle.Selected)
	case "order":
		if req.Order == nil {
			return nil, fmt.Errorf("%w: order payload missing", ErrBadRequest)
		}
		err = sess.RecordOrder(req.Order.Order)
	case "pairing":
		if req.Pairing == nil {
			return nil, fmt.Errorf("%w: pairing payload missing", ErrBadRequest)
		}
		err = sess.RecordPairing(req.Pairing.Left, req.Pairing.Target)
	}
	if err != nil {
		return nil, err
	}

	return s.view(sess), nil
}

func (s *sessionService) Advance(ctx context.Context, sessionID, userID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	state, err := sess.Advance()
	if err != nil {
		return nil, err
	}

	view := s.view(sess)
	if !state.Finished {
		return view, nil
	}

	s.publishFinished(ctx, sess)

	// submission failure is not fatal here; the client retries via Report
	report, err := s.submit(ctx, sess)
	if err != nil {
		s.logger.Warn("Result submission failed after finish, will retry on demand",
			"session_id", sess.ID(), "error", err)
		return view, nil
	}

	view.Report = report
	return view, nil
}

func (s *sessionService) AudioControl(ctx context.Context, sessionID, userID string, req *AudioRequest) (*AudioStateView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	q, err := sess.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	if q.Type != models.AudioIdentification {
		return nil, session.ErrNoAudioQuestion
	}

	audio := sess.Audio()
	switch req.Action {
	case "play":
		err = audio.Play()
	case "pause":
		audio.Pause()
	case "toggle":
		err = audio.Toggle()
	case "restart":
		err = audio.Restart()
	case "volume":
		if req.Volume == nil {
			return nil, fmt.Errorf("%w: volume payload missing", ErrBadRequest)
		}
		audio.SetVolume(*req.Volume)
	}
	if err != nil {
		return nil, err
	}

	return &AudioStateView{
		Playing:     audio.Playing(),
		CurrentTime: audio.CurrentTime(),
		Duration:    audio.Duration(),
		Volume:      audio.Volume(),
		Degraded:    audio.Degraded(),
	}, nil
}

func (s *sessionService) Report(ctx context.Context, sessionID, userID string) (*models.SessionReport, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	report, done := s.reports[sessionID]
	s.mu.RUnlock()
	if done {
		return report, nil
	}

	return s.submit(ctx, sess)
}

// ===== HELPERS =====

func (s *sessionService) lookup(sessionID, userID string) (*session.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.UserID() != userID {
		return nil, ErrSessionAccessDenied
	}
	return sess, nil
}

func (s *sessionService) checkActiveLimit(userID string) error {
	if s.config.MaxActivePerUser <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	active := 0
	for _, sess := range s.sessions {
		if sess.UserID() == userID && !sess.State().Finished {
			active++
		}
	}
	if active >= s.config.MaxActivePerUser {
		return ErrSessionLimitExceeded
	}
	return nil
}

// submit runs the terminal submission exactly once per session; the report
// is cached so retries after success are idempotent.
func (s *sessionService) submit(ctx context.Context, sess *session.Session) (*models.SessionReport, error) {
	report, err := s.reporter.Report(ctx, sess)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reports[sess.ID()] = report
	s.mu.Unlock()

	if err := s.publisher.PublishSessionEvent(ctx, events.NewResultRecordedEvent(
		sess.Definition().ID, sess.UserID(),
		report.Result.CorrectCount, report.Result.TotalQuestions,
		report.IsFirstAttempt)); err != nil {
		s.logger.Warn("Failed to publish result recorded event", "session_id", sess.ID(), "error", err)
	}

	return report, nil
}

func (s *sessionService) publishFinished(ctx context.Context, sess *session.Session) {
	result, err := sess.Result()
	if err != nil {
		return
	}

	def := sess.Definition()
	if err := s.publisher.PublishSessionEvent(ctx, events.NewSessionFinishedEvent(
		sess.ID(), def.ID, def.Title, sess.UserID(),
		result.CorrectCount, result.TotalQuestions, result.ElapsedSeconds)); err != nil {
		s.logger.Warn("Failed to publish session finished event", "session_id", sess.ID(), "error", err)
	}
}

func (s *sessionService) view(sess *session.Session) *SessionView {
	view := &SessionView{
		State:    sess.State(),
		Answered: sess.IsAnswered(),
	}
	if view.State.Finished {
		return view
	}

	q, err := sess.CurrentQuestion()
	if err != nil {
		return view
	}
	state, err := sess.CurrentAnswerState()
	if err != nil {
		return view
	}

	view.Question = buildQuestionView(sess, q, state)
	return view
}

func buildQuestionView(sess *session.Session, q *models.Question, state *models.AnswerState) *QuestionView {
	view := &QuestionView{
		ID:      q.ID,
		Content: q.Content,
		Type:    q.Type,
		Index:   sess.State().Index,
		Total:   sess.Definition().QuestionCount(),
	}

	switch q.Type {
	case models.SingleChoice, models.MultiChoice, models.AudioIdentification:
		view.Options = make([]AnswerOption, len(q.Answers))
		for i, a := range q.Answers {
			view.Options[i] = AnswerOption{ID: a.ID, Content: a.Content}
		}
	case models.OrderedSequence:
		byID := make(map[string]string, len(q.Answers))
		for _, a := range q.Answers {
			byID[a.ID] = a.Content
		}
		view.Sequence = make([]AnswerOption, len(state.SequenceOrder))
		for i, id := range state.SequenceOrder {
			view.Sequence[i] = AnswerOption{ID: id, Content: byID[id]}
		}
	case models.Pairing:
		view.PairLefts = make([]string, len(q.Answers))
		for i, a := range q.Answers {
			view.PairLefts[i] = a.Content
		}
		view.PairTargets = append([]string(nil), state.RightOrder...)
	}

	if q.Type == models.AudioIdentification {
		view.HasAudio = true
		view.AudioDegraded = sess.Audio().Degraded()
	}

	return view
}
