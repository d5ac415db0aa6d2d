package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/outlay-cli/outlay/internal/model"
)

// historyLimit caps the persisted export history; SaveHistory trims on every
// write so the table never grows past the most recent entries.
const historyLimit = 50

// GetHistory returns the export history, newest first. A scan failure on an
// individual row degrades to skipping it rather than failing the read: the
// history log is advisory and must never block an export.
func (s *SQLiteStorage) GetHistory(ctx context.Context) ([]model.ExportHistoryEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, timestamp, format, destination, record_count, total_amount, status, template_name, filename
		FROM export_history
		ORDER BY timestamp DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query export history: %w", err)
	}
	defer rows.Close()

	var entries []model.ExportHistoryEntry
	for rows.Next() {
		var e model.ExportHistoryEntry
		var format, status string
		var templateName sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &format, &e.Destination,
			&e.RecordCount, &e.TotalAmount, &status, &templateName, &e.Filename); err != nil {
			slog.Warn("skipping unreadable history row", "error", err)
			continue
		}
		e.Format = model.Format(format)
		e.Status = model.ExportStatus(status)
		e.TemplateName = templateName.String
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating export history: %w", err)
	}

	return entries, nil
}

// SaveHistory replaces the persisted history with the given entries,
// truncated to the retention limit.
func (s *SQLiteStorage) SaveHistory(ctx context.Context, entries []model.ExportHistoryEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	for i := range entries {
		if err := validateHistoryEntry(&entries[i]); err != nil {
			return fmt.Errorf("entry at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM export_history`); err != nil {
		return fmt.Errorf("failed to clear export history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO export_history
			(id, timestamp, format, destination, record_count, total_amount, status, template_name, filename)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		templateName := sql.NullString{String: e.TemplateName, Valid: e.TemplateName != ""}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Timestamp, string(e.Format), e.Destination,
			e.RecordCount, e.TotalAmount, string(e.Status), templateName, e.Filename); err != nil {
			return fmt.Errorf("failed to save history entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export history: %w", err)
	}

	return nil
}

// ClearHistory deletes the entire export history.
func (s *SQLiteStorage) ClearHistory(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM export_history`); err != nil {
		return fmt.Errorf("failed to clear export history: %w", err)
	}

	slog.Info("cleared export history")
	return nil
}
