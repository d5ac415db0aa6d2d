package storage

import (
	"context"
	"fmt"
)

// GetIntegrationStates returns the persisted id -> connected map. Only
// integrations the user has toggled appear; absent ids keep their default.
func (s *SQLiteStorage) GetIntegrationStates(ctx context.Context) (map[string]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, connected FROM integration_states`)
	if err != nil {
		return nil, fmt.Errorf("failed to query integration states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]bool)
	for rows.Next() {
		var id string
		var connected bool
		if err := rows.Scan(&id, &connected); err != nil {
			return nil, fmt.Errorf("failed to scan integration state: %w", err)
		}
		states[id] = connected
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating integration states: %w", err)
	}

	return states, nil
}

// SetIntegrationState records whether an integration is connected.
func (s *SQLiteStorage) SetIntegrationState(ctx context.Context, id string, connected bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO integration_states (id, connected, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			connected = excluded.connected,
			updated_at = CURRENT_TIMESTAMP`,
		id, connected)
	if err != nil {
		return fmt.Errorf("failed to save integration state: %w", err)
	}

	return nil
}
