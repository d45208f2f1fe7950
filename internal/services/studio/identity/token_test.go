package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/requestctx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedVerifier(now time.Time) Verifier {
	return Verifier{Issuer: "https://auth.test", Secret: testSecret, Now: func() time.Time { return now }}
}

func TestNewVerifierValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("", testSecret); err == nil {
		t.Fatal("expected issuer error")
	}
	if _, err := NewVerifier("iss", []byte("short")); err == nil {
		t.Fatal("expected secret error")
	}
	if _, err := NewVerifier("iss", testSecret); err != nil {
		t.Fatalf("new verifier: %v", err)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	verifier := fixedVerifier(now)
	token, err := verifier.Issue(Principal{UserID: "user-1", Name: "Ada", Email: "ada@example.com", SessionID: "sess-1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UserID != "user-1" || got.Name != "Ada" || got.SessionID != "sess-1" {
		t.Fatalf("principal = %#v", got)
	}
	if !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expires at = %v", got.ExpiresAt)
	}
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	verifier := fixedVerifier(now)
	valid, err := verifier.Issue(Principal{UserID: "user-1"}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	otherIssuer := fixedVerifier(now)
	otherIssuer.Issuer = "https://evil.test"
	wrongIssuer, _ := otherIssuer.Issue(Principal{UserID: "user-1"}, time.Minute)

	otherSecret := fixedVerifier(now)
	otherSecret.Secret = []byte("ffffffffffffffffffffffffffffffff")
	wrongSecret, _ := otherSecret.Issue(Principal{UserID: "user-1"}, time.Minute)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://auth.test",
		"sub": "user-1",
	}).SignedString(testSecret)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "https://auth.test",
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString(testSecret)

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss": "https://auth.test",
		"sub": "user-1",
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString(testSecret)

	later := fixedVerifier(now.Add(2 * time.Minute))

	tests := []struct {
		name     string
		verifier Verifier
		token    string
	}{
		{name: "empty", verifier: verifier, token: " "},
		{name: "garbage", verifier: verifier, token: "not.a.jwt"},
		{name: "expired", verifier: later, token: valid},
		{name: "issuer", verifier: verifier, token: wrongIssuer},
		{name: "signature", verifier: verifier, token: wrongSecret},
		{name: "no expiry", verifier: verifier, token: noExpiry},
		{name: "no subject", verifier: verifier, token: noSubject},
		{name: "algorithm", verifier: verifier, token: wrongAlg},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := tc.verifier.Verify(tc.token)
			if apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
				t.Fatalf("code = %q (err %v), want %q", apperrors.CodeOf(err), err, apperrors.CodeUnauthorized)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "abc" {
		t.Fatalf("token = %q, want header token", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "cookie-token" {
		t.Fatalf("token = %q, want cookie token", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	if got := TokenFromRequest(req); got != "" {
		t.Fatalf("token = %q, want empty", got)
	}
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	t.Parallel()

	verifier := fixedVerifier(time.Now())
	token, err := verifier.Issue(Principal{UserID: "user-1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen Principal
	var seenOK bool
	var seenUserID string
	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, seenOK = FromContext(r.Context())
		seenUserID = requestctx.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !seenOK || seen.UserID != "user-1" || seenUserID != "user-1" {
		t.Fatalf("principal = %#v ok=%v userID=%q", seen, seenOK, seenUserID)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+strings.Repeat("x", 10))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seenOK {
		t.Fatal("invalid token should continue anonymously")
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	if _, err := Require(context.Background()); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
	ctx := WithPrincipal(context.Background(), Principal{UserID: "user-1"}, "tok")
	principal, err := Require(ctx)
	if err != nil || principal.UserID != "user-1" {
		t.Fatalf("principal = %#v, %v", principal, err)
	}
	if TokenFromContext(ctx) != "tok" {
		t.Fatalf("token = %q", TokenFromContext(ctx))
	}
}
