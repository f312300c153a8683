package platform

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/core/model"
)

func TestSingleInstanceActivatesHolder(t *testing.T) {
	appName := "pomodoro-test-" + t.Name()
	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	activated := make(chan struct{}, 1)
	go guard.Serve(func() { activated <- struct{}{} })

	second, err := AcquireSingleInstance(appName)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}
}

func TestSingleInstanceReleaseFreesPort(t *testing.T) {
	appName := "pomodoro-test-" + t.Name()
	guard, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	require.NoError(t, guard.Release())
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(appName)
	require.NoError(t, err)
	assert.Equal(t, guard.Address(), again.Address())
	require.NoError(t, again.Release())
}

func TestPortFromNameIsStableAndInRange(t *testing.T) {
	port := portFromName("pomodoro")
	assert.Equal(t, port, portFromName("pomodoro"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestCueFor(t *testing.T) {
	assert.Equal(t, CueWorkDone, CueFor(model.ModeWork))
	assert.Equal(t, CueBreakDone, CueFor(model.ModeShortBreak))
	assert.Equal(t, CueBreakDone, CueFor(model.ModeLongBreak))
}

func TestSoundPlayerFallsBackToBell(t *testing.T) {
	var bell bytes.Buffer
	var calls []string
	player := &SoundPlayer{
		run: func(_ context.Context, name string, _ ...string) error {
			calls = append(calls, name)
			return errors.New("no audio device")
		},
		bell: &bell,
	}

	require.NoError(t, player.Play(context.Background(), CueWorkDone))
	assert.Len(t, calls, len(soundCandidates(CueWorkDone)))
	assert.Equal(t, "\a", bell.String())
}

func TestSoundPlayerStopsAtFirstSuccess(t *testing.T) {
	if len(soundCandidates(CueBreakDone)) == 0 {
		t.Skip("no sound commands on this platform")
	}
	var bell bytes.Buffer
	calls := 0
	player := &SoundPlayer{
		run: func(context.Context, string, ...string) error {
			calls++
			return nil
		},
		bell: &bell,
	}

	require.NoError(t, player.Play(context.Background(), CueBreakDone))
	assert.Equal(t, 1, calls)
	assert.Empty(t, bell.String())
}

func TestSoundPlayerHonoursCancelledContext(t *testing.T) {
	if len(soundCandidates(CueWorkDone)) == 0 {
		t.Skip("no sound commands on this platform")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	player := &SoundPlayer{
		run: func(context.Context, string, ...string) error {
			t.Fatal("command started after cancellation")
			return nil
		},
		bell: &bytes.Buffer{},
	}
	assert.ErrorIs(t, player.Play(ctx, CueWorkDone), context.Canceled)
}

func TestAutostartRequiresConfiguration(t *testing.T) {
	assert.ErrorIs(t, NewAutostart("", "/usr/bin/pomodoro").Apply(true), ErrAutostartUnconfigured)
	assert.ErrorIs(t, NewAutostart("Pomodoro", "").Apply(true), ErrAutostartUnconfigured)
}
