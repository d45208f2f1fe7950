package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

func upsertUserTx(ctx context.Context, tx *sql.Tx, identity storage.Identity, now int64) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO users (id, display_name, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   display_name = CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE users.display_name END,
		   email = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
		   updated_at = excluded.updated_at`,
		identity.UserID,
		strings.TrimSpace(identity.DisplayName),
		strings.TrimSpace(identity.Email),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func grantRoleTx(ctx context.Context, tx *sql.Tx, userID string, role string, now int64) error {
	var roleID int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = ?`, strings.ToUpper(strings.TrimSpace(role))).Scan(&roleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("role %q: %w", role, storage.ErrNotFound)
		}
		return fmt.Errorf("lookup role: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO user_roles (user_id, role_id, granted_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, role_id) DO UPDATE SET granted_at = excluded.granted_at`,
		userID,
		roleID,
		now,
	); err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// GetUser returns one user by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := s.ready(ctx); err != nil {
		return storage.User{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}
	var user storage.User
	var tenantID sql.NullString
	var createdAt, updatedAt int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, tenant_id, display_name, email, onboarding_path, created_at, updated_at
		   FROM users
		  WHERE id = ?`,
		userID,
	).Scan(&user.ID, &tenantID, &user.DisplayName, &user.Email, &user.OnboardingPath, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	user.TenantID = tenantID.String
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

// RecordOnboarding stores the user's onboarding path and grants role.
func (s *Store) RecordOnboarding(ctx context.Context, identity storage.Identity, path string, role string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	identity.UserID = strings.TrimSpace(identity.UserID)
	if identity.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	now := s.timestamp()
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record onboarding: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertUserTx(ctx, tx, identity, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE users SET onboarding_path = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(path),
		now,
		identity.UserID,
	); err != nil {
		return fmt.Errorf("set onboarding path: %w", err)
	}
	if strings.TrimSpace(role) != "" {
		if err := grantRoleTx(ctx, tx, identity.UserID, role, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record onboarding: %w", err)
	}
	return nil
}

// GrantRole grants role to an existing user.
func (s *Store) GrantRole(ctx context.Context, userID string, role string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin grant role: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var found int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if err := grantRoleTx(ctx, tx, userID, role, s.timestamp()); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit grant role: %w", err)
	}
	return nil
}

// ListUserRoles returns the user's role names, most recently granted first.
// CUSTOMER sorts after every other role so a seller or creator who later
// completes onboarding as a shopper keeps their dashboard.
func (s *Store) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT r.name
		   FROM user_roles ur
		   JOIN roles r ON r.id = ur.role_id
		  WHERE ur.user_id = ?
		  ORDER BY CASE r.name WHEN 'CUSTOMER' THEN 1 ELSE 0 END, ur.granted_at DESC, r.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list user roles: %w", err)
		}
		roles = append(roles, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return roles, nil
}
