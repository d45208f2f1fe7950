package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Ada's Studio":         "ada-s-studio",
		"  Café  Órbita ":      "cafe-orbita",
		"São João & Cia.":      "sao-joao-cia",
		"---":                  "",
		"日本":                   "",
		"Merch 2026 / Edition": "merch-2026-edition",
	}
	for input, want := range tests {
		if got := Make(input); got != want {
			t.Fatalf("Make(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMakeCapsLength(t *testing.T) {
	t.Parallel()

	got := Make(strings.Repeat("abc ", 40))
	if len(got) > MaxLength+1 {
		t.Fatalf("len = %d", len(got))
	}
	if strings.HasSuffix(got, "-") {
		t.Fatalf("trailing hyphen: %q", got)
	}
}
