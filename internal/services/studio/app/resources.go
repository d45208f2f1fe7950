package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.einride.tech/aip/resourcename"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/storage"
	"github.com/louisbranch/printstudio/internal/services/studio/storage/filter"
)

// Resource name patterns served under /api/v1.
const (
	productPattern     = "tenants/{tenant}/products/{product}"
	productListPattern = "tenants/{tenant}/products"
)

type variantView struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	PriceCents int64           `json:"priceCents"`
	Inventory  int             `json:"inventory"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

type productView struct {
	Name              string          `json:"name"`
	ID                string          `json:"id"`
	DraftID           string          `json:"draftId,omitempty"`
	DisplayName       string          `json:"displayName"`
	BasePriceCents    int64           `json:"basePriceCents"`
	SKU               string          `json:"sku"`
	MockupTemplateURL string          `json:"mockupTemplateUrl,omitempty"`
	PrintArea         json.RawMessage `json:"printArea,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
	CreateTime        time.Time       `json:"createTime"`
	Variants          []variantView   `json:"variants,omitempty"`
}

type listProductsResponse struct {
	Products []productView `json:"products"`
}

func rawJSON(payload []byte) json.RawMessage {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil
	}
	return json.RawMessage(payload)
}

func newProductView(product storage.Product) productView {
	return productView{
		Name:              resourcename.Sprint(productPattern, product.TenantID, product.ID),
		ID:                product.ID,
		DraftID:           product.DraftID,
		DisplayName:       product.Name,
		BasePriceCents:    product.BasePriceCents,
		SKU:               product.SKU,
		MockupTemplateURL: product.MockupTemplateURL,
		PrintArea:         rawJSON(product.PrintArea),
		Metadata:          rawJSON(product.Metadata),
		CreateTime:        product.CreatedAt,
	}
}

// handleResource resolves AIP resource names for the caller's tenant.
func (a *App) handleResource(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(chi.URLParam(r, "*"), "/")
	if err := resourcename.Validate(name); err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid resource name", err))
		return
	}
	var tenantID, productID string
	switch {
	case resourcename.Sscan(name, productPattern, &tenantID, &productID) == nil:
		a.getProduct(w, r, tenantID, productID)
	case resourcename.Sscan(name, productListPattern, &tenantID) == nil:
		a.listProducts(w, r, tenantID)
	default:
		a.writeError(w, r, apperrors.WithMetadata(apperrors.CodeNotFound, "unknown resource", map[string]string{"name": name}))
	}
}

// authorizeTenant requires the caller to own tenantID. Tenants the caller
// does not own are reported as missing.
func (a *App) authorizeTenant(r *http.Request, tenantID string) error {
	principal, err := identity.Require(r.Context())
	if err != nil {
		return err
	}
	tenant, err := a.store.GetTenantByOwner(r.Context(), principal.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.New(apperrors.CodeNotFound, "tenant not found")
	case err != nil:
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "load tenant", err)
	case tenant.ID != tenantID:
		return apperrors.New(apperrors.CodeNotFound, "tenant not found")
	}
	return nil
}

func (a *App) getProduct(w http.ResponseWriter, r *http.Request, tenantID string, productID string) {
	if err := a.authorizeTenant(r, tenantID); err != nil {
		a.writeError(w, r, err)
		return
	}
	detail, err := a.store.GetProduct(r.Context(), tenantID, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.writeError(w, r, apperrors.New(apperrors.CodeNotFound, "product not found"))
			return
		}
		a.writeError(w, r, apperrors.Wrap(apperrors.CodePersistenceFailure, "load product", err))
		return
	}
	view := newProductView(detail.Product)
	for _, variant := range detail.Variants {
		view.Variants = append(view.Variants, variantView{
			ID:         variant.ID,
			Name:       variant.Name,
			SKU:        variant.SKU,
			PriceCents: variant.PriceCents,
			Inventory:  variant.Inventory,
			Metadata:   rawJSON(variant.Metadata),
		})
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *App) listProducts(w http.ResponseWriter, r *http.Request, tenantID string) {
	if err := a.authorizeTenant(r, tenantID); err != nil {
		a.writeError(w, r, err)
		return
	}
	products, err := a.store.ListProducts(r.Context(), tenantID, r.URL.Query().Get("filter"))
	if err != nil {
		if errors.Is(err, filter.ErrInvalid) {
			a.writeError(w, r, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid filter", err))
			return
		}
		a.writeError(w, r, apperrors.Wrap(apperrors.CodePersistenceFailure, "list products", err))
		return
	}
	response := listProductsResponse{Products: make([]productView, 0, len(products))}
	for _, product := range products {
		response.Products = append(response.Products, newProductView(product))
	}
	writeJSON(w, http.StatusOK, response)
}
