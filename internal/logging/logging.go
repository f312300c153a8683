// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/google/uuid"
)

// Options controls where logs go.
type Options struct {
	Debug bool
	// File is an explicit log path; no rotation is applied to it.
	File string
	// Dir overrides the OS-specific log directory used when File is empty.
	Dir      string
	MaxFiles int
	AppName  string
}

// New returns a JSON logger writing to a file, or a discarding logger when
// neither Debug nor File is set. The returned closer releases the file.
func New(options Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if !options.Debug && options.File == "" {
		return slog.New(slog.DiscardHandler), noop, nil
	}

	logFilePath := options.File
	if logFilePath == "" {
		logDir := options.Dir
		if logDir == "" {
			dir, err := defaultLogDir(options.AppName)
			if err != nil {
				return nil, noop, fmt.Errorf("resolve log directory: %w", err)
			}
			logDir = dir
		}
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, noop, fmt.Errorf("create log directory: %w", err)
		}
		if options.MaxFiles > 0 {
			if err := rotateLogs(logDir, options.MaxFiles); err != nil {
				// Rotation failure shouldn't prevent logging.
				fmt.Fprintf(os.Stderr, "warning: log rotation failed: %v\n", err)
			}
		}
		logFilePath = filepath.Join(logDir, uuid.NewString()+".log")
	} else if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, noop, fmt.Errorf("create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}

	logger := newLogger(logFile, slog.LevelDebug)
	logger.Info("logging initialized", "log_file", logFilePath)
	return logger, logFile.Close, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// rotateLogs removes the oldest .log files so a new one fits under maxLogFiles.
func rotateLogs(logDir string, maxLogFiles int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("read log directory: %w", err)
	}

	type logFileInfo struct {
		path    string
		modTime int64
	}
	var logFiles []logFileInfo
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(logDir, entry.Name()),
			modTime: info.ModTime().UnixNano(),
		})
	}

	if len(logFiles) < maxLogFiles {
		return nil
	}

	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime < logFiles[j].modTime
	})

	numToDelete := len(logFiles) - maxLogFiles + 1
	for i := 0; i < numToDelete && i < len(logFiles); i++ {
		if err := os.Remove(logFiles[i].path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to delete old log file %s: %v\n", logFiles[i].path, err)
		}
	}
	return nil
}

func defaultLogDir(appName string) (string, error) {
	if appName == "" {
		appName = "pomodoro"
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", appName), nil
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, "logs"), nil
	default:
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = filepath.Join(homeDir, ".local", "state")
		}
		return filepath.Join(stateHome, appName), nil
	}
}
