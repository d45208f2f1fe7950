// Package i18n resolves request languages and exposes message printers
// backed by the embedded catalogs.
package i18n

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/printstudio/internal/platform/i18n/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "studio_lang"
)

var supportedTags = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
}

var tagMatcher = language.NewMatcher(supportedTags)

var (
	registerOnce sync.Once
	registerErr  error
)

// Init loads and registers the embedded catalogs once per process.
func Init() error {
	registerOnce.Do(func() {
		bundle, err := catalog.LoadEmbedded()
		if err != nil {
			registerErr = err
			return
		}
		registerErr = bundle.Register()
	})
	return registerErr
}

// SupportedTags returns the supported language tags, default first.
func SupportedTags() []language.Tag {
	return append([]language.Tag(nil), supportedTags...)
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return supportedTags[0]
}

// ParseTag parses value and reports whether it names a supported language.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	matched, _, confidence := tagMatcher.Match(parsed)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supportedTag(matched), true
}

// MatchTags picks the best supported tag for a preference list.
func MatchTags(tags []language.Tag) language.Tag {
	if len(tags) == 0 {
		return DefaultTag()
	}
	matched, _, confidence := tagMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTag(matched)
}

// supportedTag strips matcher extensions so tags compare equal to the
// supported list.
func supportedTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	region, _ := tag.Region()
	for _, candidate := range supportedTags {
		candidateBase, _ := candidate.Base()
		candidateRegion, _ := candidate.Region()
		if candidateBase == base && candidateRegion == region {
			return candidate
		}
	}
	for _, candidate := range supportedTags {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			return candidate
		}
	}
	return DefaultTag()
}

// ResolveTag picks the request language from the lang query parameter, the
// language cookie, or Accept-Language, in that order. The bool reports
// whether the query selected it and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return DefaultTag(), false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, ok := ParseTag(value); ok {
			return tag, true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return MatchTags(tags), false
		}
	}
	return DefaultTag(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
