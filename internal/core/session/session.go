// Package session drives the work/break cycle on top of a countdown engine.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"pomodoro/internal/core/countdown"
	"pomodoro/internal/core/model"
)

const defaultSaveTimeout = 5 * time.Second

// ProgressStore persists cumulative progress.
type ProgressStore interface {
	LoadProgress(ctx context.Context) (model.Progress, error)
	SaveProgress(ctx context.Context, progress model.Progress) error
}

// Options contains collaborators for Session.
type Options struct {
	Clock       clockwork.Clock
	Store       ProgressStore
	Logger      *slog.Logger
	SaveTimeout time.Duration
}

// Session is the Pomodoro state machine. Every operation is safe to call from
// any state; calls that make no sense in the current state are no-ops.
type Session struct {
	mu          sync.Mutex
	config      model.TimerConfig
	options     Options
	logger      *slog.Logger
	state       model.SessionState
	engine      *countdown.Engine
	events      *outbox
	writes      *outbox
	subscribers []chan Event
	// ticks collects tick events not yet handed to subscribers.
	ticks  *tickSlot
	closed bool
}

// New creates a Session from restored progress.
func New(config model.TimerConfig, progress model.Progress, options Options) *Session {
	config = config.Normalize()
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	if options.SaveTimeout <= 0 {
		options.SaveTimeout = defaultSaveTimeout
	}

	progress = progress.Sanitize(config)
	session := &Session{
		config:  config,
		options: options,
		logger:  options.Logger.With("component", "session"),
		state: model.SessionState{
			Mode:                 progress.Mode,
			Remaining:            progress.Remaining,
			CompletedWorkPeriods: progress.CompletedWorkPeriods,
		},
		events: newOutbox(),
		writes: newOutbox(),
	}
	session.engine = countdown.New(countdown.Config{
		Clock:    options.Clock,
		Interval: config.TickInterval,
		Dispatch: session.dispatch,
	}, countdown.Callbacks{
		OnTick:     session.onTickLocked,
		OnComplete: session.onCountdownCompleteLocked,
	})
	return session
}

// Restore loads progress from the store and creates a Session.
// A failed load is logged and the defaults are used.
func Restore(ctx context.Context, config model.TimerConfig, options Options) *Session {
	progress := model.DefaultProgress(config)
	if options.Store != nil {
		loaded, err := options.Store.LoadProgress(ctx)
		if err != nil {
			if options.Logger != nil {
				options.Logger.Warn("load progress failed, using defaults", "error", err)
			}
		} else {
			progress = loaded
		}
	}
	return New(config, progress, options)
}

// Subscribe registers a new observer channel. Events are delivered in order
// and the channel is closed by Close.
func (session *Session) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		close(ch)
		return ch
	}
	session.subscribers = append(session.subscribers, ch)
	session.ticks = nil
	return ch
}

// Snapshot returns a copy of the current state.
func (session *Session) Snapshot() model.SessionState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

// Config returns the active timer configuration.
func (session *Session) Config() model.TimerConfig {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.config
}

// Start resumes the countdown from the current remaining time.
func (session *Session) Start() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.startLocked()
}

// Pause stops the countdown and keeps the remaining time.
func (session *Session) Pause() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed || !session.pauseLocked() {
		return
	}
	session.emitLocked(EventStateChange)
	session.saveLocked()
}

// Reset stops the countdown and restores the nominal duration of the current mode.
func (session *Session) Reset() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}
	session.pauseLocked()
	session.state.Remaining = session.config.Nominal(session.state.Mode)
	session.emitLocked(EventStateChange)
	session.saveLocked()
}

// SwitchMode stops the countdown and moves to the next mode in the manual
// cycle work, short break, long break. Completed work periods are untouched.
func (session *Session) SwitchMode() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}
	session.pauseLocked()
	session.state.Mode = session.state.Mode.Next()
	session.state.Remaining = session.config.Nominal(session.state.Mode)
	session.emitLocked(EventModeChange)
	session.saveLocked()
}

// ResetProgress clears the completed work period counter.
func (session *Session) ResetProgress() {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}
	session.state.CompletedWorkPeriods = 0
	session.emitLocked(EventModeChange)
	session.saveLocked()
}

// UpdateConfig applies new durations. A countdown that has not been touched
// since its mode began adopts the new nominal duration; any remaining time is
// clamped to it.
func (session *Session) UpdateConfig(config model.TimerConfig) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}

	config = config.Normalize()
	config.TickInterval = session.config.TickInterval
	previous := session.config.Nominal(session.state.Mode)
	session.config = config
	nominal := config.Nominal(session.state.Mode)

	wasRunning := session.pauseLocked()
	if !wasRunning && session.state.Remaining == previous {
		session.state.Remaining = nominal
	}
	if session.state.Remaining > nominal {
		session.state.Remaining = nominal
	}
	if wasRunning {
		session.startLocked()
		return
	}
	session.emitLocked(EventStateChange)
}

// Close cancels the countdown, flushes a final save and closes observer channels.
func (session *Session) Close() {
	session.mu.Lock()
	if session.closed {
		session.mu.Unlock()
		return
	}
	session.pauseLocked()
	session.saveLocked()
	session.closed = true
	subscribers := session.subscribers
	session.subscribers = nil
	session.mu.Unlock()

	session.events.close()
	session.writes.close()
	for _, ch := range subscribers {
		close(ch)
	}
}

// dispatch serialises engine callbacks with every other state mutation.
func (session *Session) dispatch(deliver func()) {
	session.mu.Lock()
	defer session.mu.Unlock()
	if session.closed {
		return
	}
	deliver()
}

func (session *Session) startLocked() {
	if session.closed || session.state.Running {
		return
	}
	if session.state.Remaining <= 0 {
		session.state.Remaining = session.config.Nominal(session.state.Mode)
	}
	if err := session.engine.Start(session.state.Remaining); err != nil {
		session.logger.Error("start countdown", "error", err)
		return
	}
	session.state.Running = true
	session.emitLocked(EventStateChange)
}

func (session *Session) pauseLocked() bool {
	if !session.state.Running {
		return false
	}
	session.engine.Cancel()
	session.state.Remaining = session.engine.Remaining()
	session.state.Running = false
	return true
}

func (session *Session) onTickLocked(remaining time.Duration) {
	session.state.Remaining = remaining
	if remaining == 0 {
		session.state.Running = false
	}
	session.emitLocked(EventTick)
}

func (session *Session) onCountdownCompleteLocked() {
	ended := session.state.Mode
	session.state.Running = false
	session.state.Remaining = 0

	if ended == model.ModeWork {
		session.state.CompletedWorkPeriods++
	}
	next := session.config.NextAfterCompletion(ended, session.state.CompletedWorkPeriods)
	session.logger.Info("period completed",
		"mode", ended.String(),
		"next", next.String(),
		"completed_work_periods", session.state.CompletedWorkPeriods,
	)

	completed := session.eventLocked(EventPeriodComplete)
	completed.Mode = ended
	session.publishLocked(completed)

	session.state.Mode = next
	session.state.Remaining = session.config.Nominal(next)
	session.saveLocked()
	session.emitLocked(EventModeChange)

	if session.config.AutoStart {
		session.startLocked()
	}
}

func (session *Session) eventLocked(eventType EventType) Event {
	return Event{
		Type:                 eventType,
		Mode:                 session.state.Mode,
		Remaining:            session.state.Remaining,
		Progress:             session.state.ProgressFraction(session.config),
		CompletedWorkPeriods: session.state.CompletedWorkPeriods,
		Running:              session.state.Running,
		At:                   session.options.Clock.Now(),
	}
}

func (session *Session) emitLocked(eventType EventType) {
	session.publishLocked(session.eventLocked(eventType))
}

// publishLocked queues event for every subscriber. Ticks are coalesced and
// dropped for subscribers whose buffer is full; other events wait for room.
func (session *Session) publishLocked(event Event) {
	if len(session.subscribers) == 0 {
		return
	}
	if event.Type == EventTick {
		session.publishTickLocked(event)
		return
	}
	session.ticks = nil

	subscribers := append([]chan Event(nil), session.subscribers...)
	session.events.push(func() {
		for _, ch := range subscribers {
			select {
			case ch <- event:
				continue
			default:
			}
			select {
			case ch <- event:
			case <-session.events.closing:
			}
		}
	})
}

func (session *Session) publishTickLocked(event Event) {
	if session.ticks != nil && session.ticks.set(event) {
		return
	}
	slot := &tickSlot{subscribers: append([]chan Event(nil), session.subscribers...)}
	slot.set(event)
	session.ticks = slot
	session.events.push(slot.deliver)
}

func (session *Session) saveLocked() {
	if session.options.Store == nil {
		return
	}
	progress := model.Progress{
		CompletedWorkPeriods: session.state.CompletedWorkPeriods,
		Mode:                 session.state.Mode,
		Remaining:            session.state.Remaining,
	}
	session.writes.push(func() {
		session.persist(progress)
	})
}

// persist writes the full progress. A failed write is not retried on its own;
// the next save carries the latest state and supersedes it.
func (session *Session) persist(progress model.Progress) {
	ctx, cancel := context.WithTimeout(context.Background(), session.options.SaveTimeout)
	defer cancel()
	if err := session.options.Store.SaveProgress(ctx, progress); err != nil {
		session.logger.Warn("save progress failed",
			"error", err,
			"completed_work_periods", progress.CompletedWorkPeriods,
		)
		return
	}
	session.logger.Debug("progress saved",
		"completed_work_periods", progress.CompletedWorkPeriods,
		"mode", progress.Mode.String(),
		"remaining", progress.Remaining,
	)
}
