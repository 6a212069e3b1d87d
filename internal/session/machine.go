package session

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quizdeck/session-service/internal/models"
	"github.com/quizdeck/session-service/internal/utils"
	"github.com/quizdeck/session-service/internal/validator"
)

// Config wires a Session's collaborators. Zero-value fields fall back to
// production defaults.
type Config struct {
	UserID       string
	Ticks        TickSourceFactory
	Shuffle      Shuffler
	AssetLoader  AssetLoader
	AssetBaseURL string
	Clock        func() time.Time
	Logger       utils.Logger
}

// Session drives one traversal of a quiz: it owns the current question
// index, the per-question answer states, the countdown and the audio
// lifecycle. Navigation is strictly forward-only; a question, once left,
// cannot be revisited or revised within the same session.
//
// All exported methods are safe for the cooperative single-caller model the
// engine assumes; the internal mutex only serializes timer expiry against
// user-driven calls (last write wins, as both run on one logical thread of
// control).
type Session struct {
	mu sync.Mutex

	id     string
	userID string
	def    *models.QuizDefinition

	index    int
	finished bool
	score    *models.ScoreResult
	states   map[string]*models.AnswerState

	timer     *TimerController
	audio     *AudioCoordinator
	shuffle   Shuffler
	clock     func() time.Time
	startedAt time.Time
	logger    utils.Logger
}

// New validates the definition and starts a session at question 0. A
// definition violating a scoring invariant is rejected with a
// *errors.DefinitionError before any question is shown.
func New(def *models.QuizDefinition, cfg Config) (*Session, error) {
	if err := validator.NewDefinitionValidator().ValidateDefinition(def); err != nil {
		return nil, err
	}

	if cfg.Ticks == nil {
		cfg.Ticks = NewTickerFactory()
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = NewRandShuffler(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = utils.NewDefaultLogger()
	}
	if cfg.AssetLoader == nil {
		cfg.AssetLoader = noopLoader{}
	}

	s := &Session{
		id:      uuid.NewString(),
		userID:  cfg.UserID,
		def:     def,
		shuffle: cfg.Shuffle,
		clock:   cfg.Clock,
		states:  make(map[string]*models.AnswerState, len(def.Questions)),
	}
	s.logger = cfg.Logger.With("session_id", s.id, "quiz_id", def.ID)
	s.timer = NewTimerController(cfg.Ticks)

	monotonic := func() float64 {
		return s.clock().Sub(s.startedAt).Seconds()
	}
	s.audio = NewAudioCoordinator(cfg.AssetLoader, cfg.AssetBaseURL, monotonic)

	for i := range def.Questions {
		q := &def.Questions[i]
		s.states[q.ID] = newAnswerState(q)
	}

	s.startedAt = s.clock()
	s.enterQuestion(0)

	s.logger.Info("Quiz session started",
		"user_id", s.userID,
		"questions", def.QuestionCount(),
		"has_timer", def.HasTimer)

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the participant identifier.
func (s *Session) UserID() string { return s.userID }

// Definition returns the immutable quiz the session runs against.
func (s *Session) Definition() *models.QuizDefinition { return s.def }

// Audio exposes the audio coordinator for playback control.
func (s *Session) Audio() *AudioCoordinator { return s.audio }

// State returns a snapshot of the session for presentation.
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, ErrSessionFinished
	}
	return &s.def.Questions[s.index], nil
}

// CurrentAnswerState returns the mutable state of the current question.
func (s *Session) CurrentAnswerState() (*models.AnswerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, ErrSessionFinished
	}
	return s.states[s.def.Questions[s.index].ID], nil
}

// IsAnswered reports whether the current question is answered enough to
// advance. Informational only: Advance never requires it.
func (s *Session) IsAnswered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return false
	}
	q := &s.def.Questions[s.index]
	return isAnswered(q, s.states[q.ID])
}

// RecordSelection records the chosen content for the current single_choice
// or audio_identification question.
func (s *Session) RecordSelection(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	q := &s.def.Questions[s.index]
	return recordSelection(q, s.states[q.ID], content)
}

// RecordMultiToggle flips one option of the current multi_choice question.
func (s *Session) RecordMultiToggle(index int, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	q := &s.def.Questions[s.index]
	return recordMultiToggle(q, s.states[q.ID], index, selected)
}

// RecordOrder replaces the permutation of the current ordered_sequence
// question.
func (s *Session) RecordOrder(order []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	q := &s.def.Questions[s.index]
	return recordOrder(q, s.states[q.ID], order)
}

// RecordPairing assigns a target to a left value of the current pairing
// question.
func (s *Session) RecordPairing(left, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrSessionFinished
	}
	q := &s.def.Questions[s.index]
	return recordPairing(q, s.states[q.ID], left, target)
}

// Advance moves to the next question, or finishes the session when invoked
// on the last one. The current timer is stopped and audio is paused before
// the transition completes. Answered-state is never required: an unanswered
// question is simply scored as incorrect.
func (s *Session) Advance() (models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return models.SessionState{}, newTransitionError("advance", "session already finished")
	}

	s.advanceLocked()
	return s.stateLocked(), nil
}

// Result returns the score of a finished session.
func (s *Session) Result() (*models.ScoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return nil, ErrSessionNotFinished
	}
	return s.score, nil
}

// Breakdown returns the per-question verdicts of a finished session.
func (s *Session) Breakdown() ([]QuestionVerdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return nil, ErrSessionNotFinished
	}
	return Breakdown(s.def, s.states), nil
}

// AnswerStates exposes the recorded states, keyed by question id.
func (s *Session) AnswerStates() map[string]*models.AnswerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states
}

// expiryFor builds the expiry notification for the countdown started at
// index. Expiry behaves identically to a user-driven Advance: the deadline
// is hard and answered-state is not required. A notification that raced
// with a manual advance (the session already moved on) is discarded.
func (s *Session) expiryFor(index int) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.finished || s.index != index {
			return
		}

		s.logger.Info("Question timer expired, forcing advance", "index", s.index)
		s.advanceLocked()
	}
}

func (s *Session) advanceLocked() {
	s.timer.Stop()
	// audio must be paused before the transition completes
	s.audio.Pause()

	if s.index >= s.def.LastIndex() {
		s.finishLocked()
		return
	}

	s.index++
	s.enterQuestion(s.index)
}

// enterQuestion re-initializes answer state for the entered question,
// primes audio where applicable and restarts the countdown.
func (s *Session) enterQuestion(index int) {
	q := &s.def.Questions[index]
	reinitAnswerState(q, s.states[q.ID], s.shuffle)

	if q.Type == models.AudioIdentification {
		if assetErr := s.audio.Prime(context.Background(), q.AudioRef); assetErr != nil {
			s.logger.Warn("Audio asset failed to load, question stays answerable",
				"question_id", q.ID,
				"error", assetErr)
		}
	} else {
		s.audio.Release()
	}

	if s.def.HasTimer {
		s.timer.Reset(q.EffectiveTimeLimit(), s.expiryFor(index))
	}
}

func (s *Session) finishLocked() {
	result := Score(s.def, s.states)
	result.ElapsedSeconds = int(s.clock().Sub(s.startedAt).Seconds())

	s.score = &result
	s.finished = true

	s.logger.Info("Quiz session finished",
		"user_id", s.userID,
		"correct", result.CorrectCount,
		"total", result.TotalQuestions,
		"elapsed_seconds", result.ElapsedSeconds)
}

func (s *Session) stateLocked() models.SessionState {
	state := models.SessionState{
		SessionID: s.id,
		QuizID:    s.def.ID,
		Status:    models.SessionInProgress,
		Index:     s.index,
		Finished:  s.finished,
	}
	if s.def.HasTimer {
		state.TimeRemaining = s.timer.Remaining()
	}
	if s.finished {
		state.Status = models.SessionFinished
		score := s.score.CorrectCount
		state.Score = &score
	}
	return state
}

// noopLoader accepts any source without probing it. Used when no asset
// server is configured.
type noopLoader struct{}

func (noopLoader) Load(ctx context.Context, src string) (float64, error) {
	return 0, nil
}
