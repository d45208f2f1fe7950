package app

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/louisbranch/printstudio/internal/platform/i18n"
	"github.com/louisbranch/printstudio/internal/platform/id"
	"github.com/louisbranch/printstudio/internal/platform/requestctx"
)

const (
	requestIDHeader = "X-Request-ID"
	htmxHeader      = "HX-Request"
	htmxRedirect    = "HX-Redirect"

	// SessionCookieName holds the anonymous browser-session scope for staged
	// onboarding and wizard state.
	SessionCookieName = "studio_sid"
	sessionCookieTTL  = 30 * 24 * time.Hour
)

// requestID injects and echoes a request id for correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if rid == "" {
			generated, err := id.NewShort(12)
			if err != nil {
				generated = "studio-" + time.Now().UTC().Format("20060102150405.000000000")
			}
			rid = generated
			r.Header.Set(requestIDHeader, rid)
		}
		w.Header().Set(requestIDHeader, rid)
		next.ServeHTTP(w, r)
	})
}

// recoverPanic converts panics into HTTP 500 responses.
func recoverPanic(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					if recovered == http.ErrAbortHandler {
						panic(recovered)
					}
					logger.Error().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("request_id", r.Header.Get(requestIDHeader)).
						Interface("panic", recovered).
						Str("stack", strings.TrimSpace(string(debug.Stack()))).
						Msg("panic recovered")
					w.WriteHeader(http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", r.Header.Get(requestIDHeader)).
				Str("user_id", requestctx.UserIDFromContext(r.Context())).
				Msg("http request")
		})
	}
}

// sessionScope attaches the browser-session scope, issuing a cookie on the
// first visit.
func (a *App) sessionScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil && validScope(cookie.Value) {
			scope = cookie.Value
		}
		if scope == "" {
			generated, err := a.newID()
			if err != nil {
				a.logger.Error().Err(err).Msg("generate session scope")
				writeJSONError(w, http.StatusInternalServerError, "session unavailable")
				return
			}
			scope = generated
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    scope,
				Path:     "/",
				MaxAge:   int(sessionCookieTTL.Seconds()),
				HttpOnly: true,
				Secure:   a.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithSessionScope(r.Context(), scope)))
	})
}

func validScope(value string) bool {
	if value == "" || len(value) > 64 {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// language persists an explicit ?lang= choice.
func language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tag, persist := i18n.ResolveTag(r); persist {
			i18n.SetLanguageCookie(w, tag)
		}
		next.ServeHTTP(w, r)
	})
}

func isHTMXRequest(r *http.Request) bool {
	return r != nil && r.Header.Get(htmxHeader) == "true"
}

// redirect writes an HTMX-aware redirect response.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	if isHTMXRequest(r) {
		w.Header().Set(htmxRedirect, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusFound)
}
