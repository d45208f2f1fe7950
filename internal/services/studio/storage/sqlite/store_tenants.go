package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

// EnsureTenant returns the tenant the owner belongs to, creating candidate
// on first use.
func (s *Store) EnsureTenant(ctx context.Context, owner storage.Identity, candidate storage.Tenant) (storage.Tenant, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Tenant{}, err
	}
	ownerID := strings.TrimSpace(owner.UserID)
	if ownerID == "" {
		return storage.Tenant{}, fmt.Errorf("owner user id is required")
	}
	candidate.ID = strings.TrimSpace(candidate.ID)
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Slug = strings.TrimSpace(candidate.Slug)
	if candidate.ID == "" || candidate.Name == "" || candidate.Slug == "" {
		return storage.Tenant{}, fmt.Errorf("tenant id, name, and slug are required")
	}
	if strings.TrimSpace(candidate.Tier) == "" {
		candidate.Tier = storage.TierFree
	}
	owner.UserID = ownerID
	now := s.timestamp()

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Tenant{}, fmt.Errorf("begin ensure tenant: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertUserTx(ctx, tx, owner, now); err != nil {
		return storage.Tenant{}, err
	}
	var linked sql.NullString
	if err := tx.QueryRowContext(ctx, `SELECT tenant_id FROM users WHERE id = ?`, ownerID).Scan(&linked); err != nil {
		return storage.Tenant{}, fmt.Errorf("load owner: %w", err)
	}
	if linked.Valid && linked.String != "" {
		tenant, err := scanTenant(tx.QueryRowContext(ctx, tenantSelect+` WHERE id = ?`, linked.String))
		if err != nil {
			return storage.Tenant{}, fmt.Errorf("load linked tenant: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return storage.Tenant{}, fmt.Errorf("commit ensure tenant: %w", err)
		}
		return tenant, nil
	}
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO tenants (id, name, slug, tier, owner_user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(owner_user_id) DO NOTHING`,
		candidate.ID,
		candidate.Name,
		candidate.Slug,
		candidate.Tier,
		ownerID,
		now,
	); err != nil {
		if isUniqueViolation(err) {
			return storage.Tenant{}, storage.ErrAlreadyExists
		}
		return storage.Tenant{}, fmt.Errorf("insert tenant: %w", err)
	}

	tenant, err := scanTenant(tx.QueryRowContext(ctx, tenantSelect+` WHERE owner_user_id = ?`, ownerID))
	if err != nil {
		return storage.Tenant{}, fmt.Errorf("load tenant: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE users SET tenant_id = ?, updated_at = ? WHERE id = ? AND tenant_id IS NULL`,
		tenant.ID,
		now,
		ownerID,
	); err != nil {
		return storage.Tenant{}, fmt.Errorf("link tenant owner: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.Tenant{}, fmt.Errorf("commit ensure tenant: %w", err)
	}
	return tenant, nil
}

// GetTenantByOwner returns the tenant owned by userID.
func (s *Store) GetTenantByOwner(ctx context.Context, userID string) (storage.Tenant, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Tenant{}, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return storage.Tenant{}, fmt.Errorf("user id is required")
	}
	tenant, err := scanTenant(s.sqlDB.QueryRowContext(ctx, tenantSelect+` WHERE owner_user_id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Tenant{}, storage.ErrNotFound
		}
		return storage.Tenant{}, fmt.Errorf("get tenant by owner: %w", err)
	}
	return tenant, nil
}

const tenantSelect = `SELECT id, name, slug, tier, owner_user_id, created_at FROM tenants`

func scanTenant(row rowScanner) (storage.Tenant, error) {
	var tenant storage.Tenant
	var createdAt int64
	if err := row.Scan(&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.Tier, &tenant.OwnerUserID, &createdAt); err != nil {
		return storage.Tenant{}, err
	}
	tenant.CreatedAt = fromMillis(createdAt)
	return tenant, nil
}
