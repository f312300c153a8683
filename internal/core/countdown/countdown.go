// Package countdown runs a single countdown towards zero on a background timer.
package countdown

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	// ErrRunning indicates Start was called on a running countdown.
	ErrRunning = errors.New("countdown already running")
	// ErrInvalidDuration indicates a non-positive initial duration.
	ErrInvalidDuration = errors.New("countdown duration must be positive")
)

// State is the lifecycle position of a countdown.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopped
	StateCompleted
)

func (state State) String() string {
	switch state {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("state(%d)", int(state))
}

// Callbacks receive countdown progress.
type Callbacks struct {
	OnTick     func(remaining time.Duration)
	OnComplete func()
}

// Config contains runtime options for Engine.
type Config struct {
	Clock    clockwork.Clock
	Interval time.Duration
	// Dispatch runs every callback delivery. Owners pass a function that
	// serialises delivery with their own state, usually by taking their lock.
	// When nil, deliveries are serialised with Cancel by the engine itself and
	// callbacks must not call Cancel.
	Dispatch func(deliver func())
}

// Engine counts down from an initial duration, ticking once per interval.
// Remaining time is always derived from the stop time, so late ticks do not
// accumulate drift.
type Engine struct {
	serial     sync.Mutex
	mu         sync.Mutex
	clock      clockwork.Clock
	interval   time.Duration
	dispatch   func(func())
	callbacks  Callbacks
	state      State
	generation uint64
	stopAt     time.Time
	remaining  time.Duration
	stopCh     chan struct{}
	// timer is the pending wake-up of the running countdown.
	timer clockwork.Timer
}

// New creates an idle Engine.
func New(config Config, callbacks Callbacks) *Engine {
	if config.Clock == nil {
		config.Clock = clockwork.NewRealClock()
	}
	if config.Interval <= 0 {
		config.Interval = time.Second
	}

	engine := &Engine{
		clock:     config.Clock,
		interval:  config.Interval,
		dispatch:  config.Dispatch,
		callbacks: callbacks,
		state:     StateIdle,
	}
	if engine.dispatch == nil {
		engine.dispatch = engine.dispatchSerial
	}
	return engine
}

// Start begins counting down from initial. A stopped or completed engine is re-armed.
func (engine *Engine) Start(initial time.Duration) error {
	if initial <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, initial)
	}

	engine.mu.Lock()
	if engine.state == StateRunning {
		engine.mu.Unlock()
		return ErrRunning
	}
	engine.generation++
	engine.state = StateRunning
	engine.remaining = initial
	engine.stopAt = engine.clock.Now().Add(initial)
	engine.stopCh = make(chan struct{})
	generation, stopAt, stopCh := engine.generation, engine.stopAt, engine.stopCh
	engine.mu.Unlock()

	go engine.run(generation, stopAt, stopCh)
	return nil
}

// Cancel stops a running countdown. Once Cancel returns no callback of the
// cancelled countdown is delivered. Calling Cancel when not running is a no-op.
func (engine *Engine) Cancel() {
	engine.serial.Lock()
	defer engine.serial.Unlock()

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state != StateRunning {
		return
	}
	// Past the stop time but before the final delivery the last delivered
	// value is kept, so a resumed countdown still has time left.
	if left := engine.stopAt.Sub(engine.clock.Now()); left > 0 {
		engine.remaining = left
	}
	engine.state = StateStopped
	engine.generation++
	close(engine.stopCh)
	engine.stopCh = nil
	if engine.timer != nil {
		engine.timer.Stop()
		engine.timer = nil
	}
}

// Remaining returns the time left on the countdown.
func (engine *Engine) Remaining() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state != StateRunning {
		return engine.remaining
	}
	return clampZero(engine.stopAt.Sub(engine.clock.Now()))
}

// State returns the lifecycle state.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

func (engine *Engine) run(generation uint64, stopAt time.Time, stopCh <-chan struct{}) {
	for {
		left := stopAt.Sub(engine.clock.Now())
		if left > 0 {
			timer, ok := engine.arm(generation, engine.nextWait(left))
			if !ok {
				return
			}
			select {
			case <-stopCh:
				timer.Stop()
				return
			case <-timer.Chan():
			}
		} else {
			select {
			case <-stopCh:
				return
			default:
			}
		}

		final := !engine.clock.Now().Before(stopAt)
		engine.dispatch(func() {
			engine.deliver(generation)
		})
		if final {
			return
		}
	}
}

// arm registers the next wake-up unless the countdown was cancelled or restarted.
func (engine *Engine) arm(generation uint64, wait time.Duration) (clockwork.Timer, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.generation != generation || engine.state != StateRunning {
		return nil, false
	}
	engine.timer = engine.clock.NewTimer(wait)
	return engine.timer, true
}

// nextWait aligns ticks to whole intervals of remaining time.
func (engine *Engine) nextWait(left time.Duration) time.Duration {
	wait := left % engine.interval
	if wait == 0 {
		wait = engine.interval
	}
	return wait
}

func (engine *Engine) deliver(generation uint64) {
	engine.mu.Lock()
	if engine.generation != generation || engine.state != StateRunning {
		engine.mu.Unlock()
		return
	}
	remaining := clampZero(engine.stopAt.Sub(engine.clock.Now()))
	completed := remaining == 0
	engine.remaining = remaining
	if completed {
		engine.state = StateCompleted
		engine.stopCh = nil
		engine.timer = nil
	}
	callbacks := engine.callbacks
	engine.mu.Unlock()

	if callbacks.OnTick != nil {
		callbacks.OnTick(remaining)
	}
	if completed && callbacks.OnComplete != nil {
		callbacks.OnComplete()
	}
}

func (engine *Engine) dispatchSerial(deliver func()) {
	engine.serial.Lock()
	defer engine.serial.Unlock()
	deliver()
}

func clampZero(value time.Duration) time.Duration {
	if value < 0 {
		return 0
	}
	return value
}
