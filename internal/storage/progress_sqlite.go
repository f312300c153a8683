package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"pomodoro/internal/core/model"
)

// Keys match the ones the Android build kept in SharedPreferences.
const (
	keyCompletedWorkPeriods = "completedPomodoros"
	keyCurrentMode          = "currentMode"
	keyRemainingMillis      = "timeLeftInMillis"
)

// ProgressEntry is the GORM model for the progress key-value table.
type ProgressEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null;default:''"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (ProgressEntry) TableName() string { return "progress" }

// SQLiteProgressStore keeps progress as key-value rows in SQLite.
type SQLiteProgressStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// gormLogger forwards GORM output to slog.
type gormLogger struct {
	target *slog.Logger
	level  logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{target: l.target, level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.target.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.target.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.target.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Warn {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.target.ErrorContext(ctx, "gorm query error", "error", err, "duration", elapsed, "sql", sql, "rows", rows)
	case elapsed > 200*time.Millisecond:
		l.target.WarnContext(ctx, "slow query", "duration", elapsed, "sql", sql, "rows", rows)
	case l.level >= logger.Info:
		l.target.DebugContext(ctx, "gorm query", "duration", elapsed, "sql", sql, "rows", rows)
	}
}

// NewSQLiteProgressStore opens (and migrates) the database at dbPath.
func NewSQLiteProgressStore(dbPath string, log *slog.Logger) (*SQLiteProgressStore, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  (&gormLogger{target: log}).LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open progress database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	if err := db.AutoMigrate(&ProgressEntry{}); err != nil {
		return nil, fmt.Errorf("migrate progress schema: %w", err)
	}

	return &SQLiteProgressStore{db: db, logger: log}, nil
}

// LoadProgress reads every known key; missing keys keep their zero value.
func (store *SQLiteProgressStore) LoadProgress(ctx context.Context) (model.Progress, error) {
	var progress model.Progress
	var entries []ProgressEntry
	if err := store.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return progress, fmt.Errorf("load progress: %w", err)
	}

	for _, entry := range entries {
		switch entry.Key {
		case keyCompletedWorkPeriods:
			count, err := strconv.Atoi(entry.Value)
			if err != nil {
				return progress, fmt.Errorf("parse %s: %w", entry.Key, err)
			}
			progress.CompletedWorkPeriods = count
		case keyCurrentMode:
			mode, err := model.ParseMode(entry.Value)
			if err != nil {
				store.logger.Warn("ignoring stored mode", "value", entry.Value, "error", err)
				continue
			}
			progress.Mode = mode
		case keyRemainingMillis:
			millis, err := strconv.ParseInt(entry.Value, 10, 64)
			if err != nil {
				store.logger.Warn("ignoring stored remaining time", "value", entry.Value, "error", err)
				continue
			}
			progress.Remaining = time.Duration(millis) * time.Millisecond
		}
	}
	return progress, nil
}

// SaveProgress upserts every key in one statement.
func (store *SQLiteProgressStore) SaveProgress(ctx context.Context, progress model.Progress) error {
	entries := []ProgressEntry{
		{Key: keyCompletedWorkPeriods, Value: strconv.Itoa(progress.CompletedWorkPeriods)},
		{Key: keyCurrentMode, Value: progress.Mode.String()},
		{Key: keyRemainingMillis, Value: strconv.FormatInt(progress.Remaining.Milliseconds(), 10)},
	}

	err := store.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entries).Error
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (store *SQLiteProgressStore) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return sqlDB.Close()
}
