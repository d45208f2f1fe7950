package catalog

import (
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func catalogFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoadEmbeddedHasExpectedLocales(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, locale := range []string{BaseLocale, "pt-BR"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
	if got := bundle.Locales(); len(got) != 2 {
		t.Fatalf("locales = %v", got)
	}
}

func TestEmbeddedLocalesDefineSameKeys(t *testing.T) {
	t.Parallel()

	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.Keys(BaseLocale)
	translated := bundle.Keys("pt-BR")
	if strings.Join(base, ",") != strings.Join(translated, ",") {
		t.Fatalf("pt-BR keys drift from %s:\nbase=%v\npt-BR=%v", BaseLocale, base, translated)
	}
}

func TestLoadFromFSValidation(t *testing.T) {
	t.Parallel()

	tests := map[string]map[string]string{
		"key outside namespace": {
			"locales/en-US/core.yaml": "locale: en-US\nnamespace: core\nmessages:\n  dashboard.title: x\n",
		},
		"locale mismatch": {
			"locales/en-US/core.yaml": "locale: pt-BR\nnamespace: core\nmessages:\n  core.title: x\n",
		},
		"namespace mismatch": {
			"locales/en-US/core.yaml": "locale: en-US\nnamespace: web\nmessages:\n  web.title: x\n",
		},
		"empty messages": {
			"locales/en-US/core.yaml": "locale: en-US\nnamespace: core\nmessages: {}\n",
		},
		"duplicate after trim": {
			"locales/en-US/core.yaml":  "locale: en-US\nnamespace: core\nmessages:\n  core.title: x\n",
			"locales/en-US/core2.yaml": "locale: en-US\nnamespace: core2\nmessages:\n  core2.title: y\n",
			"locales/pt-BR/core.yaml":  "locale: pt-BR\nnamespace: core\nmessages:\n  core.title: x\n  ' core.title': y\n",
		},
		"missing base locale": {
			"locales/pt-BR/core.yaml": "locale: pt-BR\nnamespace: core\nmessages:\n  core.title: x\n",
		},
		"bad yaml": {
			"locales/en-US/core.yaml": "locale: [\n",
		},
		"no files": {},
	}
	for name, files := range tests {
		if _, err := LoadFromFS(catalogFS(files)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	t.Parallel()

	bundle, err := LoadFromFS(catalogFS(map[string]string{
		"locales/en-US/core.yaml": "locale: en-US\nnamespace: core\nmessages:\n  core.title: Studio\n  core.only_en: English\n",
		"locales/pt-BR/core.yaml": "locale: pt-BR\nnamespace: core\nmessages:\n  core.title: Estúdio\n",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := bundle.Message("pt-BR", "core.title"); got != "Estúdio" {
		t.Fatalf("title = %q", got)
	}
	if got, ok := bundle.Message("pt-BR", "core.only_en"); !ok || got != "English" {
		t.Fatalf("fallback = %q, %v", got, ok)
	}
	if _, ok := bundle.Message("pt-BR", "core.missing"); ok {
		t.Fatal("expected missing key")
	}
}

func TestRegisterMakesMessagesPrintable(t *testing.T) {
	t.Parallel()

	bundle, err := LoadFromFS(catalogFS(map[string]string{
		"locales/en-US/regtest.yaml": "locale: en-US\nnamespace: regtest\nmessages:\n  regtest.hello: Hello\n",
		"locales/pt-BR/regtest.yaml": "locale: pt-BR\nnamespace: regtest\nmessages:\n  regtest.hello: Olá\n",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := bundle.Register(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := message.NewPrinter(language.MustParse("pt-BR")).Sprintf("regtest.hello"); got != "Olá" {
		t.Fatalf("pt-BR = %q", got)
	}
	if got := message.NewPrinter(language.MustParse("pt")).Sprintf("regtest.hello"); got != "Olá" {
		t.Fatalf("pt = %q", got)
	}
}

func TestNilBundle(t *testing.T) {
	t.Parallel()

	var bundle *Bundle
	if bundle.HasLocale(BaseLocale) || bundle.Locales() != nil || bundle.Register() != nil {
		t.Fatal("nil bundle should be empty")
	}
}
