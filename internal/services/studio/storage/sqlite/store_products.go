package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/printstudio/internal/services/studio/storage"
	"github.com/louisbranch/printstudio/internal/services/studio/storage/filter"
)

const productColumns = `id, tenant_id, draft_id, name, base_price_cents, sku, metadata, print_area, mockup_template_url, created_at`

func validatePublication(publication storage.Publication) error {
	product := publication.Product
	switch {
	case strings.TrimSpace(product.ID) == "":
		return fmt.Errorf("product id is required")
	case strings.TrimSpace(product.TenantID) == "":
		return fmt.Errorf("tenant id is required")
	case strings.TrimSpace(product.Name) == "":
		return fmt.Errorf("product name is required")
	case strings.TrimSpace(product.SKU) == "":
		return fmt.Errorf("product sku is required")
	case len(publication.Variants) == 0:
		return fmt.Errorf("at least one variant is required")
	}
	for i, variant := range publication.Variants {
		if strings.TrimSpace(variant.ID) == "" || strings.TrimSpace(variant.SKU) == "" {
			return fmt.Errorf("variant %d: id and sku are required", i)
		}
	}
	if publication.Design.TenantID != product.TenantID {
		return fmt.Errorf("design tenant must match product tenant")
	}
	return validateDesign(publication.Design)
}

// PublishProduct writes the product, its variants, and the published design
// in one transaction.
func (s *Store) PublishProduct(ctx context.Context, publication storage.Publication) (storage.Product, bool, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Product{}, false, err
	}
	if err := validatePublication(publication); err != nil {
		return storage.Product{}, false, err
	}
	product := publication.Product
	product.DraftID = strings.TrimSpace(product.DraftID)
	now := s.now().UTC()
	product.CreatedAt = now

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.Product{}, false, fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if product.DraftID != "" {
		existing, err := scanProduct(tx.QueryRowContext(
			ctx,
			`SELECT `+productColumns+` FROM products WHERE tenant_id = ? AND draft_id = ?`,
			product.TenantID,
			product.DraftID,
		))
		switch {
		case err == nil:
			return existing, false, nil
		case !errors.Is(err, sql.ErrNoRows):
			return storage.Product{}, false, fmt.Errorf("lookup draft product: %w", err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.TenantID,
		product.DraftID,
		product.Name,
		product.BasePriceCents,
		product.SKU,
		blob(product.Metadata),
		blob(product.PrintArea),
		product.MockupTemplateURL,
		toMillis(now),
	); err != nil {
		if isUniqueViolation(err) {
			return storage.Product{}, false, storage.ErrAlreadyExists
		}
		return storage.Product{}, false, fmt.Errorf("insert product: %w", err)
	}

	for i, variant := range publication.Variants {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO product_variants (id, product_id, position, name, sku, price_cents, inventory, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			variant.ID,
			product.ID,
			i,
			variant.Name,
			variant.SKU,
			variant.PriceCents,
			variant.Inventory,
			blob(variant.Metadata),
		); err != nil {
			if isUniqueViolation(err) {
				return storage.Product{}, false, fmt.Errorf("insert variant %q: %w", variant.SKU, storage.ErrAlreadyExists)
			}
			return storage.Product{}, false, fmt.Errorf("insert variant: %w", err)
		}
	}

	design := publication.Design
	design.Status = storage.DesignPublished
	design.DraftID = product.DraftID
	design.CreatedAt = now
	design.UpdatedAt = now
	if err := insertDesignTx(ctx, tx, design); err != nil {
		return storage.Product{}, false, err
	}

	if err := tx.Commit(); err != nil {
		return storage.Product{}, false, fmt.Errorf("commit publish: %w", err)
	}
	product.CreatedAt = fromMillis(toMillis(now))
	return product, true, nil
}

// GetProduct returns one tenant product with its variants in order.
func (s *Store) GetProduct(ctx context.Context, tenantID string, productID string) (storage.ProductDetail, error) {
	if err := s.ready(ctx); err != nil {
		return storage.ProductDetail{}, err
	}
	tenantID = strings.TrimSpace(tenantID)
	productID = strings.TrimSpace(productID)
	if tenantID == "" || productID == "" {
		return storage.ProductDetail{}, fmt.Errorf("tenant id and product id are required")
	}
	product, err := scanProduct(s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE tenant_id = ? AND id = ?`,
		tenantID,
		productID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ProductDetail{}, storage.ErrNotFound
		}
		return storage.ProductDetail{}, fmt.Errorf("get product: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, product_id, name, sku, price_cents, inventory, metadata
		   FROM product_variants
		  WHERE product_id = ?
		  ORDER BY position ASC`,
		productID,
	)
	if err != nil {
		return storage.ProductDetail{}, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	detail := storage.ProductDetail{Product: product, Variants: []storage.ProductVariant{}}
	for rows.Next() {
		var variant storage.ProductVariant
		if err := rows.Scan(
			&variant.ID,
			&variant.ProductID,
			&variant.Name,
			&variant.SKU,
			&variant.PriceCents,
			&variant.Inventory,
			&variant.Metadata,
		); err != nil {
			return storage.ProductDetail{}, fmt.Errorf("list variants: %w", err)
		}
		detail.Variants = append(detail.Variants, variant)
	}
	if err := rows.Err(); err != nil {
		return storage.ProductDetail{}, fmt.Errorf("list variants: %w", err)
	}
	return detail, nil
}

// ListProducts returns a tenant's products, newest first.
func (s *Store) ListProducts(ctx context.Context, tenantID string, rawFilter string) ([]storage.Product, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return nil, fmt.Errorf("tenant id is required")
	}
	condition, err := filter.ParseProducts(rawFilter)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = ?`
	args := []any{tenantID}
	if !condition.Empty() {
		query += ` AND ` + condition.Clause
		args = append(args, condition.Params...)
	}
	query += ` ORDER BY created_at DESC, id ASC`
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []storage.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func scanProduct(row rowScanner) (storage.Product, error) {
	var product storage.Product
	var createdAt int64
	if err := row.Scan(
		&product.ID,
		&product.TenantID,
		&product.DraftID,
		&product.Name,
		&product.BasePriceCents,
		&product.SKU,
		&product.Metadata,
		&product.PrintArea,
		&product.MockupTemplateURL,
		&createdAt,
	); err != nil {
		return storage.Product{}, err
	}
	product.CreatedAt = fromMillis(createdAt)
	return product, nil
}
