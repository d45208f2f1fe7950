package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/printstudio/internal/services/studio/storage"
)

const designColumns = `id, tenant_id, user_id, draft_id, prompt_text, image_url, design_data, status, preview_url, created_at, updated_at`

func validateDesign(design storage.Design) error {
	switch {
	case strings.TrimSpace(design.ID) == "":
		return fmt.Errorf("design id is required")
	case strings.TrimSpace(design.TenantID) == "":
		return fmt.Errorf("tenant id is required")
	case strings.TrimSpace(design.UserID) == "":
		return fmt.Errorf("user id is required")
	}
	return nil
}

func insertDesignTx(ctx context.Context, tx *sql.Tx, design storage.Design) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO designs (`+designColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		design.ID,
		design.TenantID,
		design.UserID,
		design.DraftID,
		design.PromptText,
		design.ImageURL,
		blob(design.DesignData),
		string(design.Status),
		design.PreviewURL,
		toMillis(design.CreatedAt),
		toMillis(design.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

// SaveTemplate creates or refreshes the template design for a draft.
func (s *Store) SaveTemplate(ctx context.Context, design storage.Design) (storage.Design, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Design{}, err
	}
	if err := validateDesign(design); err != nil {
		return storage.Design{}, err
	}
	design.Status = storage.DesignTemplate
	design.DraftID = strings.TrimSpace(design.DraftID)
	now := s.now().UTC()
	design.UpdatedAt = now

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Design{}, fmt.Errorf("begin save template: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	var createdAt int64
	found := false
	if design.DraftID != "" {
		err := tx.QueryRowContext(
			ctx,
			`SELECT id, created_at FROM designs WHERE tenant_id = ? AND draft_id = ? AND status = ?`,
			design.TenantID,
			design.DraftID,
			string(storage.DesignTemplate),
		).Scan(&existingID, &createdAt)
		switch {
		case err == nil:
			found = true
		case !errors.Is(err, sql.ErrNoRows):
			return storage.Design{}, fmt.Errorf("lookup template: %w", err)
		}
	}

	if found {
		design.ID = existingID
		design.CreatedAt = fromMillis(createdAt)
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE designs
			    SET user_id = ?, prompt_text = ?, image_url = ?, design_data = ?, preview_url = ?, updated_at = ?
			  WHERE id = ?`,
			design.UserID,
			design.PromptText,
			design.ImageURL,
			blob(design.DesignData),
			design.PreviewURL,
			toMillis(now),
			existingID,
		); err != nil {
			return storage.Design{}, fmt.Errorf("update template: %w", err)
		}
	} else {
		design.CreatedAt = now
		if err := insertDesignTx(ctx, tx, design); err != nil {
			return storage.Design{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return storage.Design{}, fmt.Errorf("commit save template: %w", err)
	}
	design.CreatedAt = fromMillis(toMillis(design.CreatedAt))
	design.UpdatedAt = fromMillis(toMillis(design.UpdatedAt))
	return design, nil
}

// ListDesigns returns a tenant's designs, newest first. An empty status
// lists every status.
func (s *Store) ListDesigns(ctx context.Context, tenantID string, status storage.DesignStatus) ([]storage.Design, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	query := `SELECT ` + designColumns + ` FROM designs WHERE tenant_id = ?`
	args := []any{tenantID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY updated_at DESC, id ASC`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []storage.Design{}
	for rows.Next() {
		design, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("list designs: %w", err)
		}
		designs = append(designs, design)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

func scanDesign(row rowScanner) (storage.Design, error) {
	var design storage.Design
	var status string
	var createdAt, updatedAt int64
	if err := row.Scan(
		&design.ID,
		&design.TenantID,
		&design.UserID,
		&design.DraftID,
		&design.PromptText,
		&design.ImageURL,
		&design.DesignData,
		&status,
		&design.PreviewURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.Design{}, err
	}
	design.Status = storage.DesignStatus(status)
	design.CreatedAt = fromMillis(createdAt)
	design.UpdatedAt = fromMillis(updatedAt)
	return design, nil
}
