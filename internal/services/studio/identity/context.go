package identity

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/requestctx"
)

// SessionCookieName carries the session token for browser requests.
const SessionCookieName = "studio_session"

type principalKey struct{}

type tokenKey struct{}

// WithPrincipal stores principal and its raw token in ctx.
func WithPrincipal(ctx context.Context, principal Principal, token string) context.Context {
	ctx = requestctx.WithUserID(ctx, principal.UserID)
	ctx = context.WithValue(ctx, principalKey{}, principal)
	return context.WithValue(ctx, tokenKey{}, token)
}

// FromContext returns the authenticated principal.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	principal, ok := ctx.Value(principalKey{}).(Principal)
	return principal, ok && principal.UserID != ""
}

// TokenFromContext returns the raw session token of the current request.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Require returns the principal or an Unauthorized error.
func Require(ctx context.Context) (Principal, error) {
	principal, ok := FromContext(ctx)
	if !ok {
		return Principal{}, apperrors.New(apperrors.CodeUnauthorized, "authentication required")
	}
	return principal, nil
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// Middleware attaches the principal for requests carrying a valid token.
// Requests without one continue anonymously; handlers call Require.
func (v Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := v.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal, token)))
	})
}
