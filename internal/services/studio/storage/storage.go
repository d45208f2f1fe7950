// Package storage defines persistence contracts for studio records.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// DesignStatus marks the lifecycle of a design record.
type DesignStatus string

const (
	DesignDraft     DesignStatus = "DRAFT"
	DesignTemplate  DesignStatus = "TEMPLATE"
	DesignPublished DesignStatus = "PUBLISHED"
	DesignArchived  DesignStatus = "ARCHIVED"
)

// TierFree is the tier assigned to provisioned tenants.
const TierFree = "FREE"

// Identity is the authenticated principal a write is made for.
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
}

// Tenant is the account boundary that owns products and designs.
type Tenant struct {
	ID          string
	Name        string
	Slug        string
	Tier        string
	OwnerUserID string
	CreatedAt   time.Time
}

// User is a person known to the studio.
type User struct {
	ID             string
	TenantID       string
	DisplayName    string
	Email          string
	OnboardingPath string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Design is a stored artwork snapshot.
type Design struct {
	ID         string
	TenantID   string
	UserID     string
	DraftID    string
	PromptText string
	ImageURL   string
	DesignData []byte
	Status     DesignStatus
	PreviewURL string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a sellable listing.
type Product struct {
	ID                string
	TenantID          string
	DraftID           string
	Name              string
	BasePriceCents    int64
	SKU               string
	Metadata          []byte
	PrintArea         []byte
	MockupTemplateURL string
	CreatedAt         time.Time
}

// ProductVariant is one purchasable option of a product.
type ProductVariant struct {
	ID         string
	ProductID  string
	Name       string
	SKU        string
	PriceCents int64
	Inventory  int
	Metadata   []byte
}

// Publication is everything one publish writes.
type Publication struct {
	Product  Product
	Variants []ProductVariant
	Design   Design
}

// ProductDetail is a product with its variants.
type ProductDetail struct {
	Product  Product
	Variants []ProductVariant
}

// TenantStore provisions and resolves tenants.
type TenantStore interface {
	// EnsureTenant returns the tenant owned by owner, creating candidate when
	// none exists. Concurrent calls for one owner yield a single tenant.
	EnsureTenant(ctx context.Context, owner Identity, candidate Tenant) (Tenant, error)
	GetTenantByOwner(ctx context.Context, userID string) (Tenant, error)
}

// UserStore persists users and their roles.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (User, error)
	// RecordOnboarding stores the completed path and grants role.
	RecordOnboarding(ctx context.Context, identity Identity, path string, role string) error
	// ListUserRoles returns role names, most recently granted first, with
	// CUSTOMER after every dashboard role.
	ListUserRoles(ctx context.Context, userID string) ([]string, error)
	GrantRole(ctx context.Context, userID string, role string) error
}

// DesignStore persists design records.
type DesignStore interface {
	// SaveTemplate creates the template for a draft or updates the existing one.
	SaveTemplate(ctx context.Context, design Design) (Design, error)
	ListDesigns(ctx context.Context, tenantID string, status DesignStatus) ([]Design, error)
}

// ProductStore persists products.
type ProductStore interface {
	// PublishProduct writes the publication atomically. Publishing a draft
	// already published for the tenant returns the existing product and
	// created=false.
	PublishProduct(ctx context.Context, publication Publication) (product Product, created bool, err error)
	GetProduct(ctx context.Context, tenantID string, productID string) (ProductDetail, error)
	// ListProducts returns a tenant's products, newest first, narrowed by an
	// optional AIP-160 filter over name, sku, draft_id, base_price_cents and
	// created_at.
	ListProducts(ctx context.Context, tenantID string, filter string) ([]Product, error)
}

// Store is the full studio persistence surface.
type Store interface {
	TenantStore
	UserStore
	DesignStore
	ProductStore
	sessionstate.Backend
}
