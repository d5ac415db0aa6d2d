package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/outlay-cli/outlay/internal/model"
)

// GetSchedules returns every scheduled backup, oldest first.
func (s *SQLiteStorage) GetSchedules(ctx context.Context) ([]model.ScheduledBackup, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, frequency, destination, format, enabled, next_run, last_run, created_at
		FROM scheduled_backups
		ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.ScheduledBackup
	for rows.Next() {
		var b model.ScheduledBackup
		var frequency, format string
		var lastRun sql.NullTime
		if err := rows.Scan(&b.ID, &frequency, &b.Destination, &format,
			&b.Enabled, &b.NextRun, &lastRun, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		b.Frequency = model.Frequency(frequency)
		b.Format = model.Format(format)
		if lastRun.Valid {
			b.LastRun = lastRun.Time
		}
		schedules = append(schedules, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedules: %w", err)
	}

	return schedules, nil
}

// SaveSchedules replaces the persisted schedule list.
func (s *SQLiteStorage) SaveSchedules(ctx context.Context, schedules []model.ScheduledBackup) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_backups`); err != nil {
		return fmt.Errorf("failed to clear schedules: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scheduled_backups
			(id, frequency, destination, format, enabled, next_run, last_run, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare schedule insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range schedules {
		lastRun := sql.NullTime{Time: b.LastRun, Valid: !b.LastRun.IsZero()}
		if _, err := stmt.ExecContext(ctx, b.ID, string(b.Frequency), b.Destination, string(b.Format),
			b.Enabled, b.NextRun, lastRun, b.CreatedAt); err != nil {
			return fmt.Errorf("failed to save schedule %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schedules: %w", err)
	}

	return nil
}
