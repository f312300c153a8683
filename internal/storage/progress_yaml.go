package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"pomodoro/internal/core/model"
)

type yamlProgress struct {
	CompletedWorkPeriods int    `yaml:"completed_work_periods"`
	CurrentMode          string `yaml:"current_mode,omitempty"`
	RemainingMillis      int64  `yaml:"remaining_millis,omitempty"`
}

// YAMLProgressStore keeps progress in a small YAML file.
// Absent keys decode to zero values, which the session treats as defaults.
type YAMLProgressStore struct {
	mu   sync.Mutex
	path string
}

// NewYAMLProgressStore creates a store backed by the file at path.
func NewYAMLProgressStore(path string) *YAMLProgressStore {
	return &YAMLProgressStore{path: path}
}

// Path returns the backing file.
func (store *YAMLProgressStore) Path() string {
	return store.path
}

// LoadProgress reads the progress file. A missing file yields zero progress.
func (store *YAMLProgressStore) LoadProgress(ctx context.Context) (model.Progress, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	var progress model.Progress
	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return progress, nil
		}
		return progress, fmt.Errorf("read progress file: %w", err)
	}

	var fileData yamlProgress
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return progress, fmt.Errorf("parse progress yaml: %w", err)
	}

	progress.CompletedWorkPeriods = fileData.CompletedWorkPeriods
	progress.Remaining = time.Duration(fileData.RemainingMillis) * time.Millisecond
	if fileData.CurrentMode != "" {
		mode, err := model.ParseMode(fileData.CurrentMode)
		if err != nil {
			// The counter is still good; restart the cycle from work.
			progress.Remaining = 0
		} else {
			progress.Mode = mode
		}
	}
	return progress, nil
}

// SaveProgress replaces the progress file.
func (store *YAMLProgressStore) SaveProgress(ctx context.Context, progress model.Progress) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fileData := yamlProgress{
		CompletedWorkPeriods: progress.CompletedWorkPeriods,
		CurrentMode:          progress.Mode.String(),
		RemainingMillis:      progress.Remaining.Milliseconds(),
	}
	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal progress yaml: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if err := writeFileAtomic(store.path, serialized); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	return nil
}
