package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
)

func TestNewHTTPRoleInfoValidatesURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not a url", "/relative"} {
		if _, err := NewHTTPRoleInfo(raw, nil); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestHTTPRoleInfoCurrentUser(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(Me{ID: "user-1", Roles: []RoleGrant{{Role: RoleRef{Name: "SELLER"}}}})
	}))
	defer server.Close()

	client, err := NewHTTPRoleInfo(server.URL+"/", server.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := WithPrincipal(context.Background(), Principal{UserID: "user-1"}, "tok-1")
	me, err := client.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if me.PrimaryRole() != "SELLER" {
		t.Fatalf("role = %q", me.PrimaryRole())
	}

	bad := WithPrincipal(context.Background(), Principal{UserID: "user-1"}, "tok-2")
	if _, err := client.CurrentUser(bad); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
	if _, err := client.CurrentUser(context.Background()); apperrors.CodeOf(err) != apperrors.CodeUnauthorized {
		t.Fatalf("missing token code = %q", apperrors.CodeOf(err))
	}
}

func TestHTTPRoleInfoFailures(t *testing.T) {
	t.Parallel()

	ctx := WithPrincipal(context.Background(), Principal{UserID: "user-1"}, "tok")
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{"))
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	}
	for name, handler := range tests {
		server := httptest.NewServer(handler)
		client, err := NewHTTPRoleInfo(server.URL, server.Client())
		if err != nil {
			t.Fatalf("%s: new client: %v", name, err)
		}
		client.Timeout = 50 * time.Millisecond
		_, err = client.CurrentUser(ctx)
		server.Close()
		if apperrors.CodeOf(err) != apperrors.CodeNetworkFailure {
			t.Fatalf("%s: code = %q (err %v)", name, apperrors.CodeOf(err), err)
		}
	}
}

func TestPrimaryRoleEmpty(t *testing.T) {
	t.Parallel()

	if got := (Me{}).PrimaryRole(); got != "" {
		t.Fatalf("role = %q", got)
	}
}
