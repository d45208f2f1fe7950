package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

// GetSessionState returns the snapshot stored under scope and name.
func (s *Store) GetSessionState(ctx context.Context, scope string, name string) ([]byte, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := validateSessionKey(scope, name); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload FROM session_state WHERE scope = ? AND name = ?`,
		scope,
		name,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sessionstate.ErrNotFound
		}
		return nil, fmt.Errorf("get session state: %w", err)
	}
	return payload, nil
}

// PutSessionState replaces the snapshot stored under scope and name.
func (s *Store) PutSessionState(ctx context.Context, scope string, name string, payload []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := validateSessionKey(scope, name); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO session_state (scope, name, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(scope, name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		scope,
		name,
		blob(payload),
		s.timestamp(),
	); err != nil {
		return fmt.Errorf("put session state: %w", err)
	}
	return nil
}

// DeleteSessionState removes a snapshot if present.
func (s *Store) DeleteSessionState(ctx context.Context, scope string, name string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if err := validateSessionKey(scope, name); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session_state WHERE scope = ? AND name = ?`, scope, name); err != nil {
		return fmt.Errorf("delete session state: %w", err)
	}
	return nil
}

func validateSessionKey(scope string, name string) error {
	if strings.TrimSpace(scope) == "" {
		return fmt.Errorf("session scope is required")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("state name is required")
	}
	return nil
}
