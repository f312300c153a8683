package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeNextCycles(t *testing.T) {
	assert.Equal(t, ModeShortBreak, ModeWork.Next())
	assert.Equal(t, ModeLongBreak, ModeShortBreak.Next())
	assert.Equal(t, ModeWork, ModeLongBreak.Next())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"work", ModeWork},
		{"short_break", ModeShortBreak},
		{"shortBreak", ModeShortBreak},
		{"long_break", ModeLongBreak},
		{"longBreak", ModeLongBreak},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMode("nap")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestModeText(t *testing.T) {
	for _, mode := range Modes() {
		text, err := mode.MarshalText()
		require.NoError(t, err)

		var decoded Mode
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, mode, decoded)
	}

	_, err := Mode(7).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Equal(t, "mode(7)", Mode(7).String())
}

func TestNominalDurations(t *testing.T) {
	config := DefaultTimerConfig()
	assert.Equal(t, 1500*time.Second, config.Nominal(ModeWork))
	assert.Equal(t, 300*time.Second, config.Nominal(ModeShortBreak))
	assert.Equal(t, 900*time.Second, config.Nominal(ModeLongBreak))
}

func TestBreakAfter(t *testing.T) {
	config := DefaultTimerConfig()
	for completed := 1; completed <= 12; completed++ {
		want := ModeShortBreak
		if completed%4 == 0 {
			want = ModeLongBreak
		}
		assert.Equal(t, want, config.BreakAfter(completed), "completed=%d", completed)
	}

	config.LongBreakEvery = 2
	assert.Equal(t, ModeLongBreak, config.BreakAfter(2))
	assert.Equal(t, ModeShortBreak, config.BreakAfter(3))
}

func TestNormalizeFillsDefaults(t *testing.T) {
	config := TimerConfig{Work: time.Minute}.Normalize()
	assert.Equal(t, time.Minute, config.Work)
	assert.Equal(t, DefaultShortBreakDuration, config.ShortBreak)
	assert.Equal(t, DefaultLongBreakDuration, config.LongBreak)
	assert.Equal(t, DefaultLongBreakEvery, config.LongBreakEvery)
	assert.Equal(t, DefaultTickInterval, config.TickInterval)
}

func TestProgressSanitize(t *testing.T) {
	config := DefaultTimerConfig()
	tests := []struct {
		name  string
		input Progress
		want  Progress
	}{
		{
			name:  "zero value",
			input: Progress{},
			want:  Progress{Mode: ModeWork, Remaining: 1500 * time.Second},
		},
		{
			name:  "keeps break remaining",
			input: Progress{Mode: ModeShortBreak, Remaining: 42 * time.Second, CompletedWorkPeriods: 3},
			want:  Progress{Mode: ModeShortBreak, Remaining: 42 * time.Second, CompletedWorkPeriods: 3},
		},
		{
			name:  "clamps to mode nominal",
			input: Progress{Mode: ModeShortBreak, Remaining: 1200 * time.Second},
			want:  Progress{Mode: ModeShortBreak, Remaining: 300 * time.Second},
		},
		{
			name:  "unknown mode",
			input: Progress{Mode: Mode(9), Remaining: time.Second, CompletedWorkPeriods: -2},
			want:  Progress{Mode: ModeWork, Remaining: time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.input.Sanitize(config))
		})
	}
}

func TestProgressFraction(t *testing.T) {
	config := DefaultTimerConfig()
	state := SessionState{Mode: ModeShortBreak, Remaining: 150 * time.Second}
	assert.InDelta(t, 0.5, state.ProgressFraction(config), 1e-9)

	state.Remaining = 0
	assert.InDelta(t, 1.0, state.ProgressFraction(config), 1e-9)
}

func TestSettingsTimerConfig(t *testing.T) {
	settings := DefaultSettings()
	settings.AutoStart = true
	settings.LongBreakEvery = 0

	config := settings.TimerConfig()
	assert.Equal(t, DefaultTimerConfig().Work, config.Work)
	assert.Equal(t, DefaultLongBreakEvery, config.LongBreakEvery)
	assert.True(t, config.AutoStart)
}

func TestNextAfterCompletion(t *testing.T) {
	config := DefaultTimerConfig()
	assert.Equal(t, ModeShortBreak, config.NextAfterCompletion(ModeWork, 1))
	assert.Equal(t, ModeLongBreak, config.NextAfterCompletion(ModeWork, 8))
	assert.Equal(t, ModeWork, config.NextAfterCompletion(ModeShortBreak, 1))
	assert.Equal(t, ModeWork, config.NextAfterCompletion(ModeLongBreak, 4))
}
