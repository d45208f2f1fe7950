package wizard

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

func ptr[T any](v T) *T {
	return &v
}

func TestUpdateProductMergesPresentKeys(t *testing.T) {
	t.Parallel()

	state := UpdateProduct(New("d1"), ProductPatch{Title: ptr("Tee"), Category: ptr("apparel")})
	state = UpdateProduct(state, ProductPatch{Description: ptr("Soft cotton")})

	want := Product{Title: "Tee", Description: "Soft cotton", Category: "apparel"}
	if diff := cmp.Diff(want, state.Product); diff != "" {
		t.Fatalf("product mismatch (-want +got):\n%s", diff)
	}
}

func TestDisjointSectionUpdatesCommute(t *testing.T) {
	t.Parallel()

	productPatch := ProductPatch{Title: ptr("Poster"), BlueprintID: ptr("bp-7")}
	canvas := json.RawMessage(`{"objects":[{"type":"text"}]}`)
	designPatch := DesignPatch{CanvasJSON: &canvas, PreviewURL: ptr("https://cdn.test/p.png")}

	start := New("d1")
	productFirst, err := UpdateDesign(UpdateProduct(start, productPatch), designPatch)
	if err != nil {
		t.Fatalf("update design: %v", err)
	}
	designFirst, err := UpdateDesign(start, designPatch)
	if err != nil {
		t.Fatalf("update design: %v", err)
	}
	designFirst = UpdateProduct(designFirst, productPatch)

	if diff := cmp.Diff(productFirst, designFirst); diff != "" {
		t.Fatalf("order changed result (-product-first +design-first):\n%s", diff)
	}
	onlyProduct := UpdateProduct(start, productPatch)
	if diff := cmp.Diff(start.Design, onlyProduct.Design); diff != "" {
		t.Fatalf("product update touched design (-want +got):\n%s", diff)
	}
	onlyDesign, _ := UpdateDesign(start, designPatch)
	if diff := cmp.Diff(start.Product, onlyDesign.Product); diff != "" {
		t.Fatalf("design update touched product (-want +got):\n%s", diff)
	}
}

func TestUpdateDesignRejectsMalformedCanvas(t *testing.T) {
	t.Parallel()

	bad := json.RawMessage(`{"objects":`)
	_, err := UpdateDesign(New("d1"), DesignPatch{CanvasJSON: &bad})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeInvalidInput)
	}
}

func TestUpdateVariants(t *testing.T) {
	t.Parallel()

	state, err := UpdateVariants(New("d1"), VariantsPatch{
		SelectedIDs: ptr([]string{"S", "M", "S"}),
		Prices:      ptr(map[string]VariantPrice{"S": {RetailCents: 1500}}),
	})
	if err != nil {
		t.Fatalf("update variants: %v", err)
	}
	if diff := cmp.Diff([]string{"S", "M"}, state.Variants.SelectedIDs); diff != "" {
		t.Fatalf("selected mismatch (-want +got):\n%s", diff)
	}

	state, err = UpdateVariants(state, VariantsPatch{Prices: ptr(map[string]VariantPrice{"M": {RetailCents: 1800}})})
	if err != nil {
		t.Fatalf("update variants: %v", err)
	}
	if _, ok := state.Variants.Prices["S"]; ok {
		t.Fatal("price table should be replaced wholesale")
	}
	if len(state.Variants.SelectedIDs) != 2 {
		t.Fatalf("selection changed: %v", state.Variants.SelectedIDs)
	}
}

func TestUpdateVariantsValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]VariantsPatch{
		"blank id":       {SelectedIDs: ptr([]string{"S", " "})},
		"negative price": {Prices: ptr(map[string]VariantPrice{"S": {RetailCents: -1}})},
	}
	for name, patch := range tests {
		start := New("d1")
		got, err := UpdateVariants(start, patch)
		if apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
			t.Fatalf("%s: code = %q", name, apperrors.CodeOf(err))
		}
		if diff := cmp.Diff(start, got); diff != "" {
			t.Fatalf("%s: state changed (-want +got):\n%s", name, diff)
		}
	}
}

func TestUpdateSettings(t *testing.T) {
	t.Parallel()

	state, err := UpdateSettings(New("d1"), SettingsPatch{IncludeShipping: ptr(true)})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	want := Settings{ProfitMargin: DefaultProfitMargin, IncludeShipping: true}
	if diff := cmp.Diff(want, state.Settings); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
	if _, err := UpdateSettings(state, SettingsPatch{ProfitMargin: ptr(101)}); apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeInvalidInput)
	}
}

func TestDesignTitle(t *testing.T) {
	t.Parallel()

	if got := New("d1").DesignTitle(); got != UntitledDesign {
		t.Fatalf("title = %q", got)
	}
	state := UpdateProduct(New("d1"), ProductPatch{Title: ptr("  Sunset Mug ")})
	if got := state.DesignTitle(); got != "Sunset Mug" {
		t.Fatalf("title = %q", got)
	}
}

func TestPatchDecodingKeepsAbsentKeysNil(t *testing.T) {
	t.Parallel()

	var patch SettingsPatch
	if err := json.Unmarshal([]byte(`{"includeShipping":false}`), &patch); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if patch.ProfitMargin != nil {
		t.Fatal("absent key decoded as present")
	}
	if patch.IncludeShipping == nil || *patch.IncludeShipping {
		t.Fatalf("includeShipping = %v", patch.IncludeShipping)
	}
}
