// Package config resolves runtime options from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"pomodoro/internal/storage"
)

const (
	StoreYAML   = "yaml"
	StoreSQLite = "sqlite"
)

// ErrUnknownStore indicates an unsupported progress store backend.
var ErrUnknownStore = errors.New("unknown progress store")

// Runtime holds process-level options. Timer preferences live in the
// settings file instead.
type Runtime struct {
	DataDir       string `env:"POMODORO_DATA_DIR"`
	Store         string `env:"POMODORO_STORE" envDefault:"yaml"`
	Debug         bool   `env:"POMODORO_DEBUG"`
	LogFile       string `env:"POMODORO_LOG_FILE"`
	MaxLogFiles   int    `env:"POMODORO_MAX_LOG_FILES" envDefault:"20"`
	WatchSettings bool   `env:"POMODORO_WATCH_SETTINGS" envDefault:"true"`
}

// Load parses Runtime from the process environment and validates it.
func Load() (Runtime, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom parses Runtime from the given variables and validates it.
func LoadFrom(environ map[string]string) (Runtime, error) {
	var runtime Runtime
	if err := env.ParseWithOptions(&runtime, env.Options{Environment: environ}); err != nil {
		return runtime, fmt.Errorf("parse env: %w", err)
	}
	return runtime, runtime.Validate()
}

// Validate checks option values.
func (runtime Runtime) Validate() error {
	switch runtime.Store {
	case StoreYAML, StoreSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStore, runtime.Store)
	}
	if runtime.MaxLogFiles < 0 {
		return fmt.Errorf("max log files must not be negative: %d", runtime.MaxLogFiles)
	}
	return nil
}

// ResolveDataDir returns DataDir or the per-user default for appName.
func (runtime Runtime) ResolveDataDir(appName string) (string, error) {
	if runtime.DataDir != "" {
		return runtime.DataDir, nil
	}
	return storage.DefaultDir(appName)
}
