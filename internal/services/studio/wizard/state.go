// Package wizard stages a product and design draft across the creation
// steps. Every section update is a shallow merge, and the whole draft is
// persisted after each one.
package wizard

import (
	"encoding/json"
	"strings"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

// StorageKey names the wizard snapshot in the session-state port.
const StorageKey = "product-wizard-storage"

const (
	// DefaultBasePriceCents applies when no variant carries a positive price.
	DefaultBasePriceCents int64 = 2000
	// DefaultProfitMargin is the starting margin percentage.
	DefaultProfitMargin = 30
	// UnlimitedInventory marks print-on-demand stock that never runs out.
	UnlimitedInventory = 9999
	// StandardVariantName names the variant created when none is selected.
	StandardVariantName = "Standard"
	// UntitledDesign titles designs for products without a title.
	UntitledDesign = "Untitled Design"
)

// Product is the listing metadata section.
type Product struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	BlueprintID string `json:"blueprintId"`
}

// Design is the artwork section. CanvasJSON is opaque to the server.
type Design struct {
	CanvasJSON json.RawMessage `json:"canvasJson,omitempty"`
	PreviewURL string          `json:"previewUrl"`
	PromptText string          `json:"promptText"`
	ImageURL   string          `json:"imageUrl"`
}

// VariantPrice holds per-variant prices in cents.
type VariantPrice struct {
	RetailCents int64 `json:"retailCents"`
	CostCents   int64 `json:"costCents"`
	ProfitCents int64 `json:"profitCents"`
}

// Variants is the selection section.
type Variants struct {
	SelectedIDs []string                `json:"selectedIds"`
	Prices      map[string]VariantPrice `json:"prices"`
}

// Settings holds pricing preferences.
type Settings struct {
	ProfitMargin    int  `json:"profitMargin"`
	IncludeShipping bool `json:"includeShipping"`
}

// State is the staged draft.
type State struct {
	DraftID  string   `json:"draftId"`
	Product  Product  `json:"product"`
	Design   Design   `json:"design"`
	Variants Variants `json:"variants"`
	Settings Settings `json:"settings"`
}

// New returns an empty draft identified by draftID.
func New(draftID string) State {
	return State{
		DraftID: draftID,
		Variants: Variants{
			SelectedIDs: []string{},
			Prices:      map[string]VariantPrice{},
		},
		Settings: Settings{ProfitMargin: DefaultProfitMargin},
	}
}

func (s State) clone() State {
	next := s
	if s.Design.CanvasJSON != nil {
		next.Design.CanvasJSON = append(json.RawMessage{}, s.Design.CanvasJSON...)
	}
	next.Variants.SelectedIDs = append([]string{}, s.Variants.SelectedIDs...)
	next.Variants.Prices = make(map[string]VariantPrice, len(s.Variants.Prices))
	for id, price := range s.Variants.Prices {
		next.Variants.Prices[id] = price
	}
	return next
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return s.clone()
}

// DesignTitle is the product title, or a fallback for untitled drafts.
func (s State) DesignTitle() string {
	if title := strings.TrimSpace(s.Product.Title); title != "" {
		return title
	}
	return UntitledDesign
}

// ProductPatch replaces the product fields that are set.
type ProductPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	BlueprintID *string `json:"blueprintId"`
}

// DesignPatch replaces the design fields that are set.
type DesignPatch struct {
	CanvasJSON *json.RawMessage `json:"canvasJson"`
	PreviewURL *string          `json:"previewUrl"`
	PromptText *string          `json:"promptText"`
	ImageURL   *string          `json:"imageUrl"`
}

// VariantsPatch replaces the selection or the whole price table.
type VariantsPatch struct {
	SelectedIDs *[]string                `json:"selectedIds"`
	Prices      *map[string]VariantPrice `json:"prices"`
}

// SettingsPatch replaces the settings fields that are set.
type SettingsPatch struct {
	ProfitMargin    *int  `json:"profitMargin"`
	IncludeShipping *bool `json:"includeShipping"`
}

// UpdateProduct merges patch into the product section.
func UpdateProduct(s State, patch ProductPatch) State {
	next := s.clone()
	setString(&next.Product.Title, patch.Title)
	setString(&next.Product.Description, patch.Description)
	setString(&next.Product.Category, patch.Category)
	setString(&next.Product.BlueprintID, patch.BlueprintID)
	return next
}

// UpdateDesign merges patch into the design section.
func UpdateDesign(s State, patch DesignPatch) (State, error) {
	next := s.clone()
	if patch.CanvasJSON != nil {
		raw := *patch.CanvasJSON
		if len(raw) > 0 && !json.Valid(raw) {
			return s.clone(), apperrors.New(apperrors.CodeInvalidInput, "canvas json is malformed")
		}
		next.Design.CanvasJSON = append(json.RawMessage(nil), raw...)
	}
	setString(&next.Design.PreviewURL, patch.PreviewURL)
	setString(&next.Design.PromptText, patch.PromptText)
	setString(&next.Design.ImageURL, patch.ImageURL)
	return next, nil
}

// UpdateVariants merges patch into the variants section.
func UpdateVariants(s State, patch VariantsPatch) (State, error) {
	next := s.clone()
	if patch.SelectedIDs != nil {
		selected := make([]string, 0, len(*patch.SelectedIDs))
		seen := make(map[string]struct{}, len(*patch.SelectedIDs))
		for _, id := range *patch.SelectedIDs {
			id = strings.TrimSpace(id)
			if id == "" {
				return s.clone(), apperrors.New(apperrors.CodeInvalidInput, "variant id is required")
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			selected = append(selected, id)
		}
		next.Variants.SelectedIDs = selected
	}
	if patch.Prices != nil {
		prices := make(map[string]VariantPrice, len(*patch.Prices))
		for id, price := range *patch.Prices {
			if price.RetailCents < 0 || price.CostCents < 0 {
				return s.clone(), apperrors.WithMetadata(apperrors.CodeInvalidInput, "variant prices must not be negative", map[string]string{"variant": id})
			}
			prices[id] = price
		}
		next.Variants.Prices = prices
	}
	return next, nil
}

// UpdateSettings merges patch into the settings section.
func UpdateSettings(s State, patch SettingsPatch) (State, error) {
	next := s.clone()
	if patch.ProfitMargin != nil {
		if *patch.ProfitMargin < 0 || *patch.ProfitMargin > 100 {
			return s.clone(), apperrors.New(apperrors.CodeInvalidInput, "profit margin must be between 0 and 100")
		}
		next.Settings.ProfitMargin = *patch.ProfitMargin
	}
	if patch.IncludeShipping != nil {
		next.Settings.IncludeShipping = *patch.IncludeShipping
	}
	return next, nil
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// normalize rejects snapshots without a draft and fills nil collections.
func normalize(s State) (State, bool) {
	if strings.TrimSpace(s.DraftID) == "" {
		return State{}, false
	}
	return s.clone(), true
}
