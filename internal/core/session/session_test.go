package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"pomodoro/internal/core/model"
)

const waitTimeout = 2 * time.Second

type memoryStore struct {
	mu       sync.Mutex
	progress model.Progress
	loadErr  error
	saveErr  error
	block    bool
	saved    chan model.Progress
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: make(chan model.Progress, 256)}
}

func (store *memoryStore) LoadProgress(ctx context.Context) (model.Progress, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.progress, store.loadErr
}

func (store *memoryStore) SaveProgress(ctx context.Context, progress model.Progress) error {
	store.mu.Lock()
	block, saveErr := store.block, store.saveErr
	store.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if saveErr != nil {
		return saveErr
	}
	store.mu.Lock()
	store.progress = progress
	store.mu.Unlock()
	store.saved <- progress
	return nil
}

type harness struct {
	session *Session
	clock   *clockwork.FakeClock
	events  <-chan Event
	store   *memoryStore
}

func newHarness(t require.TestingT, config model.TimerConfig, progress model.Progress) *harness {
	clock := clockwork.NewFakeClock()
	store := newMemoryStore()
	session := New(config, progress, Options{Clock: clock, Store: store})
	return &harness{
		session: session,
		clock:   clock,
		events:  session.Subscribe(256),
		store:   store,
	}
}

func shortConfig() model.TimerConfig {
	return model.TimerConfig{
		Work:           3 * time.Second,
		ShortBreak:     time.Second,
		LongBreak:      2 * time.Second,
		LongBreakEvery: 4,
		TickInterval:   time.Second,
	}
}

func (h *harness) advance(t require.TestingT, duration time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(duration)
}

func (h *harness) waitForTimer(t require.TestingT) {
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
}

func (h *harness) waitFor(t require.TestingT, eventType EventType) Event {
	deadline := time.After(waitTimeout)
	for {
		select {
		case event, ok := <-h.events:
			require.True(t, ok, "event stream closed while waiting for %s", eventType)
			if event.Type == eventType {
				return event
			}
		case <-deadline:
			require.FailNow(t, "timed out waiting for event", string(eventType))
			return Event{}
		}
	}
}

func (h *harness) waitForSave(t require.TestingT) model.Progress {
	select {
	case progress := <-h.store.saved:
		return progress
	case <-time.After(waitTimeout):
		require.FailNow(t, "timed out waiting for save")
		return model.Progress{}
	}
}

// completePeriod runs the current period to its natural end and returns the
// mode change that follows it.
func (h *harness) completePeriod(t require.TestingT) Event {
	state := h.session.Snapshot()
	if !state.Running {
		h.session.Start()
	}
	h.advance(t, h.session.Config().Nominal(state.Mode))
	return h.waitFor(t, EventModeChange)
}

func TestNewUsesDefaults(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	assert.Equal(t, model.SessionState{
		Mode:      model.ModeWork,
		Remaining: 1500 * time.Second,
	}, h.session.Snapshot())
}

func TestPauseAfterTenTicksKeepsRemaining(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	for i := 0; i < 10; i++ {
		h.advance(t, time.Second)
	}
	h.waitForTimer(t)
	h.session.Pause()

	state := h.session.Snapshot()
	assert.Equal(t, 1490*time.Second, state.Remaining)
	assert.False(t, state.Running)

	h.session.Start()
	assert.Equal(t, 1490*time.Second, h.session.Snapshot().Remaining)
	h.advance(t, time.Second)
	for {
		tick := h.waitFor(t, EventTick)
		if tick.Remaining == 1489*time.Second {
			break
		}
		require.Greater(t, tick.Remaining, 1489*time.Second)
	}
}

func TestFinalTickIsNotRunning(t *testing.T) {
	h := newHarness(t, shortConfig(), model.DefaultProgress(shortConfig()))
	defer h.session.Close()

	h.session.Start()
	for i := 0; i < 3; i++ {
		h.advance(t, time.Second)
	}
	for {
		tick := h.waitFor(t, EventTick)
		if tick.Remaining > 0 {
			assert.True(t, tick.Running)
			continue
		}
		assert.False(t, tick.Running)
		break
	}
}

func TestStalledSubscriberDoesNotGrowQueue(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()
	stalled := h.session.Subscribe(1)

	// The first state change fills the stalled buffer, the pause blocks on it.
	h.session.Start()
	h.session.Pause()
	h.session.Start()
	for i := 0; i < 20; i++ {
		h.advance(t, time.Second)
	}
	h.waitForTimer(t)

	assert.LessOrEqual(t, h.session.events.pending(), 3)
	assert.Len(t, stalled, 1)
}

func TestWorkCompletionRoutesToShortBreak(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.advance(t, 1500*time.Second)

	tick := h.waitFor(t, EventTick)
	assert.Equal(t, time.Duration(0), tick.Remaining)
	assert.False(t, tick.Running, "a countdown at zero is not running")

	completed := h.waitFor(t, EventPeriodComplete)
	assert.Equal(t, model.ModeWork, completed.Mode)
	assert.Equal(t, 1, completed.CompletedWorkPeriods)
	assert.False(t, completed.Running)

	changed := h.waitFor(t, EventModeChange)
	assert.Equal(t, model.ModeShortBreak, changed.Mode)
	assert.Equal(t, 300*time.Second, changed.Remaining)

	assert.Equal(t, model.SessionState{
		Mode:                 model.ModeShortBreak,
		Remaining:            300 * time.Second,
		CompletedWorkPeriods: 1,
	}, h.session.Snapshot())

	saved := h.waitForSave(t)
	assert.Equal(t, 1, saved.CompletedWorkPeriods)
}

func TestBreakCompletionRoutesToWork(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.Progress{Mode: model.ModeLongBreak, CompletedWorkPeriods: 4})
	defer h.session.Close()

	changed := h.completePeriod(t)
	assert.Equal(t, model.ModeWork, changed.Mode)
	assert.Equal(t, 4, changed.CompletedWorkPeriods)
	assert.Equal(t, 1500*time.Second, h.session.Snapshot().Remaining)
}

func TestAutoStartCyclesThroughFourWorkPeriods(t *testing.T) {
	config := model.DefaultTimerConfig()
	config.AutoStart = true
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	current := model.ModeWork
	var entered []model.Mode
	for len(entered) < 7 {
		h.advance(t, config.Nominal(current))
		changed := h.waitFor(t, EventModeChange)
		entered = append(entered, changed.Mode)
		current = changed.Mode
	}

	assert.Equal(t, []model.Mode{
		model.ModeShortBreak, model.ModeWork,
		model.ModeShortBreak, model.ModeWork,
		model.ModeShortBreak, model.ModeWork,
		model.ModeLongBreak,
	}, entered)

	state := h.session.Snapshot()
	assert.Equal(t, 4, state.CompletedWorkPeriods)
	assert.True(t, state.Running)
}

func TestCompletionIsDeliveredOnce(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.advance(t, config.Work)
	h.waitFor(t, EventModeChange)

	select {
	case event := <-h.events:
		assert.NotEqual(t, EventPeriodComplete, event.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPauseBeforeCompletionSuppressesCompletion(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.advance(t, time.Second)
	h.waitForTimer(t)
	h.session.Pause()
	h.clock.Advance(time.Minute)

	deadline := time.After(20 * time.Millisecond)
	for {
		select {
		case event := <-h.events:
			require.NotEqual(t, EventPeriodComplete, event.Type)
			continue
		case <-deadline:
		}
		break
	}
	state := h.session.Snapshot()
	assert.Equal(t, 0, state.CompletedWorkPeriods)
	assert.Equal(t, model.ModeWork, state.Mode)
	assert.Equal(t, 2*time.Second, state.Remaining)
}

func TestSwitchModeTwiceFromWork(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.SwitchMode()
	h.session.SwitchMode()

	state := h.session.Snapshot()
	assert.Equal(t, model.ModeLongBreak, state.Mode)
	assert.Equal(t, 900*time.Second, state.Remaining)
	assert.False(t, state.Running)
}

func TestSwitchModeStopsRunningCountdown(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.waitForTimer(t)
	h.session.SwitchMode()

	state := h.session.Snapshot()
	assert.False(t, state.Running)
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.Equal(t, config.ShortBreak, state.Remaining)
}

func TestStartWhileRunningIsNoOp(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.session.Start()
	h.advance(t, time.Second)
	h.waitForTimer(t)

	state := h.session.Snapshot()
	assert.True(t, state.Running)
	assert.Equal(t, 2*time.Second, state.Remaining)
}

func TestSwitchModeCycleNeverTouchesCount(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		config := model.DefaultTimerConfig()
		count := rapid.IntRange(0, 100).Draw(rt, "completed")
		switches := rapid.IntRange(0, 20).Draw(rt, "switches")

		h := newHarness(rt, config, model.Progress{CompletedWorkPeriods: count})
		defer h.session.Close()

		cycle := []model.Mode{model.ModeWork, model.ModeShortBreak, model.ModeLongBreak}
		for i := 1; i <= switches; i++ {
			h.session.SwitchMode()
			state := h.session.Snapshot()
			require.Equal(rt, cycle[i%3], state.Mode)
			require.Equal(rt, config.Nominal(state.Mode), state.Remaining)
			require.Equal(rt, count, state.CompletedWorkPeriods)
		}
	})
}

func TestResetRestoresNominalDuration(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		config := shortConfig()
		config.Work = 10 * time.Second
		config.ShortBreak = 6 * time.Second
		config.LongBreak = 8 * time.Second
		count := rapid.IntRange(0, 10).Draw(rt, "completed")
		switches := rapid.IntRange(0, 2).Draw(rt, "switches")
		ticks := rapid.IntRange(0, 5).Draw(rt, "ticks")
		keepRunning := rapid.Bool().Draw(rt, "keep_running")

		h := newHarness(rt, config, model.Progress{CompletedWorkPeriods: count})
		defer h.session.Close()

		for i := 0; i < switches; i++ {
			h.session.SwitchMode()
		}
		mode := h.session.Snapshot().Mode

		h.session.Start()
		for i := 0; i < ticks; i++ {
			h.advance(rt, time.Second)
		}
		h.waitForTimer(rt)
		if !keepRunning {
			h.session.Pause()
		}

		h.session.Reset()
		state := h.session.Snapshot()
		require.Equal(rt, mode, state.Mode)
		require.Equal(rt, config.Nominal(mode), state.Remaining)
		require.Equal(rt, count, state.CompletedWorkPeriods)
		require.False(rt, state.Running)
	})
}

func TestWorkCompletionsCountAndRouteBreaks(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		config := shortConfig()
		n := rapid.IntRange(0, 9).Draw(rt, "work_periods")

		h := newHarness(rt, config, model.DefaultProgress(config))
		defer h.session.Close()

		for k := 1; k <= n; k++ {
			afterWork := h.completePeriod(rt)
			require.Equal(rt, k, afterWork.CompletedWorkPeriods)
			if k%4 == 0 {
				require.Equal(rt, model.ModeLongBreak, afterWork.Mode)
			} else {
				require.Equal(rt, model.ModeShortBreak, afterWork.Mode)
			}

			afterBreak := h.completePeriod(rt)
			require.Equal(rt, model.ModeWork, afterBreak.Mode)
			require.Equal(rt, k, afterBreak.CompletedWorkPeriods)
		}
		require.Equal(rt, n, h.session.Snapshot().CompletedWorkPeriods)
	})
}

func TestFailingStoreKeepsStateInMemory(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()
	h.store.mu.Lock()
	h.store.saveErr = errors.New("disk full")
	h.store.mu.Unlock()

	changed := h.completePeriod(t)
	assert.Equal(t, 1, changed.CompletedWorkPeriods)
	assert.Equal(t, 1, h.session.Snapshot().CompletedWorkPeriods)

	h.store.mu.Lock()
	h.store.saveErr = nil
	h.store.mu.Unlock()

	h.session.Pause()
	h.session.Reset()
	saved := h.waitForSave(t)
	assert.Equal(t, 1, saved.CompletedWorkPeriods)
}

func TestStalledStoreDoesNotBlockTicking(t *testing.T) {
	config := shortConfig()
	clock := clockwork.NewFakeClock()
	store := newMemoryStore()
	store.block = true
	session := New(config, model.DefaultProgress(config), Options{
		Clock:       clock,
		Store:       store,
		SaveTimeout: 50 * time.Millisecond,
	})
	h := &harness{session: session, clock: clock, events: session.Subscribe(256), store: store}

	first := h.completePeriod(t)
	assert.Equal(t, model.ModeShortBreak, first.Mode)
	second := h.completePeriod(t)
	assert.Equal(t, model.ModeWork, second.Mode)
	assert.Equal(t, 1, session.Snapshot().CompletedWorkPeriods)

	store.mu.Lock()
	store.block = false
	store.mu.Unlock()
	session.Close()
}

func TestRestoreUsesStoredProgress(t *testing.T) {
	config := model.DefaultTimerConfig()
	store := newMemoryStore()
	store.progress = model.Progress{
		CompletedWorkPeriods: 7,
		Mode:                 model.ModeShortBreak,
		Remaining:            2 * time.Hour,
	}

	session := Restore(context.Background(), config, Options{Clock: clockwork.NewFakeClock(), Store: store})
	defer session.Close()

	assert.Equal(t, model.SessionState{
		Mode:                 model.ModeShortBreak,
		Remaining:            300 * time.Second,
		CompletedWorkPeriods: 7,
	}, session.Snapshot())
}

func TestRestoreFallsBackToDefaultsOnLoadError(t *testing.T) {
	config := model.DefaultTimerConfig()
	store := newMemoryStore()
	store.loadErr = errors.New("corrupt file")

	session := Restore(context.Background(), config, Options{Clock: clockwork.NewFakeClock(), Store: store})
	defer session.Close()

	assert.Equal(t, model.SessionState{
		Mode:      model.ModeWork,
		Remaining: 1500 * time.Second,
	}, session.Snapshot())
}

func TestUpdateConfigRescalesUntouchedCountdown(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	updated := config
	updated.Work = 50 * time.Minute
	h.session.UpdateConfig(updated)
	assert.Equal(t, 50*time.Minute, h.session.Snapshot().Remaining)

	updated.Work = 10 * time.Minute
	h.session.UpdateConfig(updated)
	assert.Equal(t, 10*time.Minute, h.session.Snapshot().Remaining)
}

func TestUpdateConfigClampsRunningCountdown(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.DefaultProgress(config))
	defer h.session.Close()

	h.session.Start()
	h.waitForTimer(t)

	updated := config
	updated.Work = 5 * time.Minute
	h.session.UpdateConfig(updated)

	state := h.session.Snapshot()
	assert.True(t, state.Running)
	assert.Equal(t, 5*time.Minute, state.Remaining)
}

func TestResetProgressClearsCount(t *testing.T) {
	config := model.DefaultTimerConfig()
	h := newHarness(t, config, model.Progress{CompletedWorkPeriods: 3})
	defer h.session.Close()

	h.session.ResetProgress()
	assert.Equal(t, 0, h.session.Snapshot().CompletedWorkPeriods)
	assert.Equal(t, 0, h.waitForSave(t).CompletedWorkPeriods)
}

func TestCloseFlushesAndClosesSubscribers(t *testing.T) {
	config := shortConfig()
	h := newHarness(t, config, model.DefaultProgress(config))

	h.session.Start()
	h.advance(t, time.Second)
	h.waitForTimer(t)
	h.session.Close()

	var last model.Progress
	for {
		select {
		case progress := <-h.store.saved:
			last = progress
			continue
		default:
		}
		break
	}
	assert.Equal(t, 2*time.Second, last.Remaining)

	for range h.events {
	}
	_, ok := <-h.session.Subscribe(1)
	assert.False(t, ok)

	h.session.Start()
	h.session.Close()
	assert.False(t, h.session.Snapshot().Running)
}
