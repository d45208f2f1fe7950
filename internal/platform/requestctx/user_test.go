package requestctx

import (
	"context"
	"testing"
)

func TestUserIDFromContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), "user-42")
	if got := UserIDFromContext(ctx); got != "user-42" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-42")
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

//nolint:staticcheck // nil context handling is part of the contract.
func TestNilContexts(t *testing.T) {
	if got := UserIDFromContext(nil); got != "" {
		t.Fatalf("expected empty user for nil context, got %q", got)
	}
	if got := SessionScopeFromContext(nil); got != "" {
		t.Fatalf("expected empty scope for nil context, got %q", got)
	}
	if got := UserIDFromContext(WithUserID(nil, "u")); got != "u" {
		t.Fatalf("WithUserID(nil) lost value, got %q", got)
	}
}

func TestSessionScopeIndependentOfUser(t *testing.T) {
	ctx := WithSessionScope(WithUserID(context.Background(), "user-1"), "sid-9")
	if got := SessionScopeFromContext(ctx); got != "sid-9" {
		t.Fatalf("SessionScopeFromContext = %q, want %q", got, "sid-9")
	}
	if got := UserIDFromContext(ctx); got != "user-1" {
		t.Fatalf("UserIDFromContext = %q, want %q", got, "user-1")
	}
}
