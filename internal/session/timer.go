package session

import (
	"sync"
	"time"
)

// TickSource abstracts the 1-second cadence driving the countdown so tests
// can advance virtual time deterministically. Ticking is cadence-driven, not
// derived from elapsed wall-clock time; drift under load is accepted.
type TickSource interface {
	Ticks() <-chan time.Time
	Stop()
}

// TickSourceFactory creates a fresh TickSource for each countdown run.
type TickSourceFactory func() TickSource

type tickerSource struct {
	ticker *time.Ticker
}

func (t *tickerSource) Ticks() <-chan time.Time { return t.ticker.C }
func (t *tickerSource) Stop()                   { t.ticker.Stop() }

// NewTickerFactory returns the production factory, one tick per second.
func NewTickerFactory() TickSourceFactory {
	return func() TickSource {
		return &tickerSource{ticker: time.NewTicker(time.Second)}
	}
}

// ManualTickSource is a test tick source driven by Tick().
type ManualTickSource struct {
	ch chan time.Time
}

// NewManualTickSource creates a manual tick source for tests.
func NewManualTickSource() *ManualTickSource {
	return &ManualTickSource{ch: make(chan time.Time)}
}

func (m *ManualTickSource) Ticks() <-chan time.Time { return m.ch }
func (m *ManualTickSource) Stop()                   {}

// Tick advances virtual time by one second and blocks until the controller
// has consumed the tick.
func (m *ManualTickSource) Tick() {
	m.ch <- time.Now()
}

// TimerController runs the per-question countdown. When the countdown
// reaches zero it raises the expiry callback exactly once and never touches
// session state itself; the state machine interprets expiry as a forced
// advance. Inert when the quiz has no timer.
type TimerController struct {
	mu        sync.Mutex
	remaining int
	running   bool
	source    TickSource
	stop      chan struct{}
	newSource TickSourceFactory
}

// NewTimerController creates a stopped controller.
func NewTimerController(factory TickSourceFactory) *TimerController {
	return &TimerController{
		newSource: factory,
	}
}

// Start sets remaining to limit and begins the countdown cadence. onExpiry
// belongs to this countdown only: a Stop or Reset discards it, so a stale
// expiry can never fire after a manual advance already moved the session on.
// It is invoked from the ticking goroutine; the callback owner locks.
func (t *TimerController) Start(limit int, onExpiry func()) {
	t.mu.Lock()
	t.stopLocked()
	t.remaining = limit
	t.running = true
	t.source = t.newSource()
	t.stop = make(chan struct{})
	source, stop := t.source, t.stop
	t.mu.Unlock()

	go t.run(source, stop, onExpiry)
}

// Stop halts the cadence without resetting remaining. Used on manual
// advance and on finish.
func (t *TimerController) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Reset stops the current countdown and starts a new one with the next
// question's limit. Invoked on every forward transition when the quiz has a
// timer.
func (t *TimerController) Reset(limit int, onExpiry func()) {
	t.Start(limit, onExpiry)
}

// Remaining returns the seconds left in the current countdown.
func (t *TimerController) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the cadence is active.
func (t *TimerController) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

func (t *TimerController) stopLocked() {
	if t.source != nil {
		t.source.Stop()
		close(t.stop)
		t.source = nil
		t.stop = nil
	}
	t.running = false
}

func (t *TimerController) run(source TickSource, stop chan struct{}, onExpiry func()) {
	for {
		select {
		case <-stop:
			return
		case <-source.Ticks():
			if expired := t.decrement(source); expired {
				if onExpiry != nil {
					onExpiry()
				}
				return
			}
		}
	}
}

// decrement consumes one tick. Returns true exactly once, on the tick that
// brings remaining to zero.
func (t *TimerController) decrement(source TickSource) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	// a Stop or Reset raced with this tick; drop it
	if t.source != source {
		return false
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return false
	}

	t.stopLocked()
	return true
}
