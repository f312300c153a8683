// Package animation eases displayed progress towards its latest value.
package animation

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config contains tween timing values.
type Config struct {
	Duration      time.Duration
	FrameInterval time.Duration
	Easing        func(t float64) float64
}

// Engine animates a single float value, such as the progress dial, from
// whatever it currently shows to a new target.
type Engine struct {
	mu      sync.Mutex
	config  Config
	clock   clockwork.Clock
	update  func(float64)
	current float64
	cancel  context.CancelFunc
}

// New creates a new animation engine. update receives every frame value and
// is called from the engine goroutine.
func New(config Config, clock clockwork.Clock, update func(float64)) *Engine {
	defaults := DefaultConfig()
	if config.Duration <= 0 {
		config.Duration = defaults.Duration
	}
	if config.FrameInterval <= 0 {
		config.FrameInterval = defaults.FrameInterval
	}
	if config.Easing == nil {
		config.Easing = defaults.Easing
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{config: config, clock: clock, update: update}
}

// AnimateTo starts a tween from the current value to target, replacing any
// tween in progress.
func (engine *Engine) AnimateTo(ctx context.Context, target float64) {
	engine.start(ctx, func(runCtx context.Context, from float64) {
		startedAt := engine.clock.Now()
		for {
			if !sleepWithContext(runCtx, engine.clock, engine.config.FrameInterval) {
				return
			}
			fraction := float64(engine.clock.Since(startedAt)) / float64(engine.config.Duration)
			if fraction > 1 {
				fraction = 1
			}
			if !engine.set(runCtx, from+(target-from)*engine.config.Easing(fraction)) {
				return
			}
			if fraction == 1 {
				return
			}
		}
	})
}

// Jump stops any tween and shows value immediately.
func (engine *Engine) Jump(value float64) {
	engine.Stop()
	engine.mu.Lock()
	engine.current = value
	engine.mu.Unlock()
	engine.update(value)
}

// Value returns the last value shown.
func (engine *Engine) Value() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.current
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context, float64)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	from := engine.current
	engine.mu.Unlock()

	go run(runCtx, from)
}

// set records and publishes a frame unless the tween has been replaced.
func (engine *Engine) set(ctx context.Context, value float64) bool {
	engine.mu.Lock()
	if ctx.Err() != nil {
		engine.mu.Unlock()
		return false
	}
	engine.current = value
	engine.mu.Unlock()
	engine.update(value)
	return true
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, duration time.Duration) bool {
	timer := clock.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
