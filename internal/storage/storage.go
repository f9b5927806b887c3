// Package storage persists evaluation runs in SQLite so accuracy can be
// tracked across prompt and model changes.
package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/finsight-ai/finsight/internal/eval"
)

// RunRecord is one persisted evaluation run summary.
type RunRecord struct {
	ID               uint      `gorm:"primaryKey"`
	RunID            string    `gorm:"uniqueIndex;size:64"`
	Mode             string    `gorm:"size:8"`
	Judged           bool      ``
	Timestamp        time.Time ``
	Total            int       ``
	ToolAccuracy     float64   ``
	ExactAccuracy    float64   ``
	SemanticAccuracy float64   ``
	MeanQuality      float64   ``
	Errors           int       ``
	DurationMs       int64     ``
	ArtifactPath     string    `gorm:"size:512"`
	CreatedAt        time.Time ``
}

// QuestionRecord is one persisted per-question result.
type QuestionRecord struct {
	ID                uint   `gorm:"primaryKey"`
	RunID             string `gorm:"index;size:64"`
	QuestionID        string `gorm:"size:64"`
	ExpectedTool      string `gorm:"size:64"`
	ActualTool        string `gorm:"size:64"`
	ToolMatch         bool   ``
	ExactArgsMatch    bool   ``
	SemanticArgsMatch bool   ``
	LatencyMs         int64  ``
	Error             string ``
}

// Store wraps the SQLite database.
type Store struct {
	db *gorm.DB
}

// Open connects to (or creates) the database at path and migrates the
// schema.
func Open(path string, debug bool) (*Store, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.AutoMigrate(&RunRecord{}, &QuestionRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveOutcome records a completed run and its per-question results.
func (s *Store) SaveOutcome(ctx context.Context, outcome *eval.Outcome, artifactPath string) error {
	record := RunRecord{
		RunID:            outcome.RunID,
		Mode:             string(outcome.Mode),
		Judged:           outcome.Judged,
		Timestamp:        outcome.Timestamp,
		Total:            outcome.Summary.Total,
		ToolAccuracy:     outcome.Summary.ToolAccuracy,
		ExactAccuracy:    outcome.Summary.ExactAccuracy,
		SemanticAccuracy: outcome.Summary.SemanticAccuracy,
		Errors:           outcome.Summary.Errors,
		DurationMs:       outcome.Summary.DurationMs,
		ArtifactPath:     artifactPath,
	}
	if outcome.Summary.Quality != nil {
		record.MeanQuality = outcome.Summary.Quality.MeanOverall
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("saving run record: %w", err)
		}
		for i := range outcome.Results {
			r := &outcome.Results[i]
			q := QuestionRecord{
				RunID:             outcome.RunID,
				QuestionID:        r.QuestionID,
				ExpectedTool:      r.ExpectedTool,
				ActualTool:        r.ActualTool,
				ToolMatch:         r.ToolMatch,
				ExactArgsMatch:    r.ExactArgsMatch,
				SemanticArgsMatch: r.SemanticArgsMatch,
				LatencyMs:         r.LatencyMs,
				Error:             r.Error,
			}
			if err := tx.Create(&q).Error; err != nil {
				return fmt.Errorf("saving question record: %w", err)
			}
		}
		return nil
	})
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	var runs []RunRecord
	query := s.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// QuestionHistory returns every persisted result for one golden question,
// newest first. Useful for spotting questions that regress across runs.
func (s *Store) QuestionHistory(ctx context.Context, questionID string, limit int) ([]QuestionRecord, error) {
	var records []QuestionRecord
	query := s.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading question history: %w", err)
	}
	return records, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
