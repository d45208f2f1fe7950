package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Condition
	}{
		{name: "blank", raw: "  ", want: Condition{}},
		{
			name: "equals string",
			raw:  `name = "Sunset Tee"`,
			want: Condition{Clause: "name = ?", Params: []any{"Sunset Tee"}},
		},
		{
			name: "price range",
			raw:  `base_price_cents >= 1500 AND base_price_cents < 3000`,
			want: Condition{Clause: "(base_price_cents >= ? AND base_price_cents < ?)", Params: []any{int64(1500), int64(3000)}},
		},
		{
			name: "or",
			raw:  `sku = "PS-A" OR draft_id = "draft-1"`,
			want: Condition{Clause: "(sku = ? OR draft_id = ?)", Params: []any{"PS-A", "draft-1"}},
		},
		{
			name: "created after",
			raw:  `created_at > "2026-01-02T03:04:05Z"`,
			want: Condition{Clause: "created_at > ?", Params: []any{int64(1767323045000)}},
		},
		{
			name: "not",
			raw:  `NOT name = "x"`,
			want: Condition{Clause: "NOT (name = ?)", Params: []any{"x"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseProducts(tt.raw)
			if err != nil {
				t.Fatalf("parse %q: %v", tt.raw, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("condition mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseProductsRejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`owner = "x"`,
		`name = `,
		`base_price_cents = "cheap"`,
		`created_at > "yesterday"`,
	} {
		if _, err := ParseProducts(raw); !errors.Is(err, ErrInvalid) {
			t.Fatalf("parse %q error = %v, want ErrInvalid", raw, err)
		}
	}
}

func TestConditionEmpty(t *testing.T) {
	t.Parallel()

	if !(Condition{}).Empty() {
		t.Fatal("zero condition should be empty")
	}
	if (Condition{Clause: "name = ?"}).Empty() {
		t.Fatal("clause condition should not be empty")
	}
}
