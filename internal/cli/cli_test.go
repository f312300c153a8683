package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodoro/internal/config"
	"pomodoro/internal/core/model"
	"pomodoro/internal/storage"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	output, err := runCommand(t, "--help")
	require.NoError(t, err)
	for _, expected := range []string{"Available Commands:", "gui", "tui", "status", "reset-progress", "--store", "--data-dir"} {
		assert.Contains(t, output, expected)
	}
}

func TestUnknownStoreFlag(t *testing.T) {
	_, err := runCommand(t, "status", "--store", "redis", "--data-dir", t.TempDir())
	assert.ErrorIs(t, err, config.ErrUnknownStore)
}

func TestStatusOnFreshDirectory(t *testing.T) {
	output, err := runCommand(t, "status", "--data-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "Mode: Work\n")
	assert.Contains(t, output, "Remaining: 25:00\n")
	assert.Contains(t, output, "Completed pomodoros: 0\n")
	assert.Contains(t, output, "Next break: Short break\n")
}

func TestStatusReadsSavedProgress(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewYAMLProgressStore(storage.ProgressPath(dir))
	require.NoError(t, store.SaveProgress(context.Background(), model.Progress{
		CompletedWorkPeriods: 3,
		Mode:                 model.ModeShortBreak,
		Remaining:            125 * time.Second,
	}))

	output, err := runCommand(t, "status", "--data-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "Mode: Short break\n")
	assert.Contains(t, output, "Remaining: 02:05\n")
	assert.Contains(t, output, "Completed pomodoros: 3\n")
	assert.Contains(t, output, "Next break: Long break\n")
}

func TestResetProgressClearsCounter(t *testing.T) {
	for _, kind := range []string{config.StoreYAML, config.StoreSQLite} {
		t.Run(kind, func(t *testing.T) {
			dir := t.TempDir()
			store, closeStore, err := openStore(kind, dir, nil)
			require.NoError(t, err)
			require.NoError(t, store.SaveProgress(context.Background(), model.Progress{
				CompletedWorkPeriods: 5,
				Mode:                 model.ModeLongBreak,
				Remaining:            10 * time.Minute,
			}))
			if closeStore != nil {
				require.NoError(t, closeStore())
			}

			output, err := runCommand(t, "reset-progress", "--data-dir", dir, "--store", kind)
			require.NoError(t, err)
			assert.Contains(t, output, "Cleared 5 completed pomodoros")

			output, err = runCommand(t, "status", "--data-dir", dir, "--store", kind)
			require.NoError(t, err)
			assert.Contains(t, output, "Completed pomodoros: 0\n")
			assert.Contains(t, output, "Mode: Long break\n")
			assert.Contains(t, output, "Remaining: 10:00\n")
		})
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("POMODORO_STORE", "redis")
	t.Setenv("POMODORO_DATA_DIR", t.TempDir())

	_, err := runCommand(t, "status")
	require.ErrorIs(t, err, config.ErrUnknownStore)

	output, err := runCommand(t, "status", "--store", config.StoreSQLite)
	require.NoError(t, err)
	assert.Contains(t, output, "Store: sqlite")
}
