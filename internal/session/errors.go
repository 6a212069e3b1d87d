package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionFinished is returned when a transition or mutation is
	// attempted on a session that already reached its terminal state.
	ErrSessionFinished = errors.New("session already finished")

	// ErrSessionNotFinished is returned when a result is requested before
	// the session reached its terminal state.
	ErrSessionNotFinished = errors.New("session not finished")

	// ErrAudioUnavailable is returned by playback operations when the media
	// asset never loaded. The question stays answerable regardless.
	ErrAudioUnavailable = errors.New("audio unavailable")

	// ErrNoAudioQuestion is returned when a playback operation targets a
	// question without a media asset.
	ErrNoAudioQuestion = errors.New("current question has no audio")
)

// StateTransitionError reports an invalid transition or a mutation that is
// illegal for the current question's type. These indicate caller bugs and
// never silently no-op.
type StateTransitionError struct {
	Op     string
	Reason string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition (%s): %s", e.Op, e.Reason)
}

func newTransitionError(op, reason string) *StateTransitionError {
	return &StateTransitionError{Op: op, Reason: reason}
}

// AssetError reports a media asset that failed to load. It is a degraded
// condition, not a fatal one.
type AssetError struct {
	Source string
	Err    error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("audio asset %q failed to load: %v", e.Source, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// SubmissionError reports a failed terminal result submission. The session's
// local score is retained so presentation can drive a re-submission without
// recomputation.
type SubmissionError struct {
	QuizID string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("result submission for quiz %s failed: %v", e.QuizID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
