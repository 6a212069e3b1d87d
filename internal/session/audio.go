package session

import (
	"context"
	"strings"
	"sync"

	"github.com/quizdeck/session-service/internal/models"
)

// AssetLoader resolves and primes a media source, returning its duration in
// seconds. The production implementation probes the asset server; tests use
// a stub.
type AssetLoader interface {
	Load(ctx context.Context, src string) (duration float64, err error)
}

// AudioCoordinator owns the playback lifecycle of audio_identification
// questions. It primes the asset on question entry without auto-playing,
// tracks play position against an injected clock, and guarantees playback is
// paused before a question transition completes so audio never bleeds into
// the next question.
type AudioCoordinator struct {
	mu     sync.Mutex
	loader AssetLoader
	// base location of path-style references, supplied by the external
	// collaborator; the coordinator never guesses it
	assetBaseURL string
	now          func() float64 // monotonic seconds, injected for tests

	source     string
	loaded     bool
	loadErr    *AssetError
	playing    bool
	position   float64
	playedFrom float64
	duration   float64
	volume     int
}

// NewAudioCoordinator creates a coordinator resolving path references
// against assetBaseURL. now yields monotonic seconds for progress tracking.
func NewAudioCoordinator(loader AssetLoader, assetBaseURL string, now func() float64) *AudioCoordinator {
	return &AudioCoordinator{
		loader:       loader,
		assetBaseURL: strings.TrimRight(assetBaseURL, "/"),
		now:          now,
		volume:       100,
	}
}

// Prime loads the question's media without auto-playing. A load failure is
// recorded as a degraded state, not returned as fatal: the question remains
// answerable and playback operations report ErrAudioUnavailable.
func (a *AudioCoordinator) Prime(ctx context.Context, ref *models.AudioRef) *AssetError {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.reset()
	a.source = a.resolve(ref)

	duration, err := a.loader.Load(ctx, a.source)
	if err != nil {
		a.loadErr = &AssetError{Source: a.source, Err: err}
		return a.loadErr
	}

	a.loaded = true
	a.duration = duration
	return nil
}

// Release clears the primed asset when a non-audio question is entered.
func (a *AudioCoordinator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

// Play starts or resumes playback.
func (a *AudioCoordinator) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		return ErrAudioUnavailable
	}
	if a.playing {
		return nil
	}
	a.playing = true
	a.playedFrom = a.now()
	return nil
}

// Pause halts playback, retaining the position. Returns once the pause has
// taken effect; the state machine relies on that ordering before completing
// a transition.
func (a *AudioCoordinator) Pause() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pauseLocked()
	return nil
}

// Restart rewinds to the beginning and plays.
func (a *AudioCoordinator) Restart() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded {
		return ErrAudioUnavailable
	}
	a.position = 0
	a.playing = true
	a.playedFrom = a.now()
	return nil
}

// Toggle flips between playing and paused.
func (a *AudioCoordinator) Toggle() error {
	a.mu.Lock()
	playing := a.playing
	a.mu.Unlock()

	if playing {
		return a.Pause()
	}
	return a.Play()
}

// SetVolume sets playback volume, clamped to 0-100.
func (a *AudioCoordinator) SetVolume(volume int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	a.volume = volume
}

// Volume returns the current playback volume.
func (a *AudioCoordinator) Volume() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volume
}

// CurrentTime returns the playback position in seconds for progress display.
func (a *AudioCoordinator) CurrentTime() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positionLocked()
}

// Duration returns the asset duration in seconds, 0 when not loaded.
func (a *AudioCoordinator) Duration() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.duration
}

// Playing reports whether playback is active.
func (a *AudioCoordinator) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Degraded reports whether the asset failed to load.
func (a *AudioCoordinator) Degraded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadErr != nil
}

// resolve turns an AudioRef into a playable locator. Embedded payloads are
// used directly; file names are resolved against the asset base URL.
func (a *AudioCoordinator) resolve(ref *models.AudioRef) string {
	if ref == nil {
		return ""
	}
	if ref.Embedded() {
		return ref.Data
	}
	return a.assetBaseURL + "/" + strings.TrimLeft(ref.FileName, "/")
}

func (a *AudioCoordinator) pauseLocked() {
	if !a.playing {
		return
	}
	a.position = a.positionLocked()
	a.playing = false
}

func (a *AudioCoordinator) positionLocked() float64 {
	pos := a.position
	if a.playing {
		pos += a.now() - a.playedFrom
	}
	if a.duration > 0 && pos > a.duration {
		pos = a.duration
	}
	return pos
}

func (a *AudioCoordinator) reset() {
	a.source = ""
	a.loaded = false
	a.loadErr = nil
	a.playing = false
	a.position = 0
	a.duration = 0
}
