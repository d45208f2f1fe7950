package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

type failingPort struct {
	readErr  error
	writeErr error
}

func (p failingPort) Read(context.Context, string) ([]byte, error) {
	return nil, p.readErr
}

func (p failingPort) Write(context.Context, string, []byte) error {
	return p.writeErr
}

func (p failingPort) Delete(context.Context, string) error {
	return nil
}

func TestStoreMirrorsEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := sessionstate.Scoped(sessionstate.NewMemory(), "sid")
	store := NewStore(port)
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if err := store.SetAnswer(ctx, KeyGoal, Text(GoalShopForMyself)); err != nil {
		t.Fatalf("set answer: %v", err)
	}
	if err := store.NextStep(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}

	payload, err := port.Read(ctx, StorageKey)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"currentStep", "history", "answers", "computedPath"} {
		if _, ok := raw[field]; !ok {
			t.Fatalf("snapshot missing %q: %s", field, payload)
		}
	}

	reloaded := NewStore(port)
	if err := reloaded.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if diff := cmp.Diff(store.State(), reloaded.State()); diff != "" {
		t.Fatalf("reloaded mismatch (-want +got):\n%s", diff)
	}
	if reloaded.State().CurrentStep != StepProductInterest {
		t.Fatalf("step = %q", reloaded.State().CurrentStep)
	}
}

func TestStoreSkipsHydrationUntilAsked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := sessionstate.Scoped(sessionstate.NewMemory(), "sid")
	first := NewStore(port)
	_ = first.SetAnswer(ctx, KeyGoal, Text(GoalSellArt))

	second := NewStore(port)
	if second.Hydrated() {
		t.Fatal("store hydrated on construction")
	}
	if diff := cmp.Diff(Initial(), second.State()); diff != "" {
		t.Fatalf("pre-hydration state (-want +got):\n%s", diff)
	}
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if second.State().Path != PathArtist {
		t.Fatalf("path = %q, want %q", second.State().Path, PathArtist)
	}
}

func TestStoreHydrateCorruptSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := map[string]string{
		"not json":     `{"currentStep":`,
		"unknown step": `{"currentStep":"CHECKOUT","history":[],"answers":{},"computedPath":""}`,
		"bad path":     `{"currentStep":"GOAL","history":[],"answers":{},"computedPath":"VIP"}`,
		"bad history":  `{"currentStep":"GOAL","history":["NOPE"],"answers":{},"computedPath":""}`,
	}
	for name, payload := range tests {
		port := sessionstate.Scoped(sessionstate.NewMemory(), "sid")
		_ = port.Write(ctx, StorageKey, []byte(payload))
		store := NewStore(port)
		if err := store.Hydrate(ctx); err != nil {
			t.Fatalf("%s: hydrate: %v", name, err)
		}
		if diff := cmp.Diff(Initial(), store.State()); diff != "" {
			t.Fatalf("%s: state (-want +got):\n%s", name, diff)
		}
	}
}

func TestStoreHydrateNullCollections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := sessionstate.Scoped(sessionstate.NewMemory(), "sid")
	_ = port.Write(ctx, StorageKey, []byte(`{"currentStep":"location","history":null,"answers":null,"computedPath":"ARTIST"}`))
	store := NewStore(port)
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	want := Initial()
	want.CurrentStep = StepLocation
	want.Path = PathArtist
	if diff := cmp.Diff(want, store.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
}

func TestStoreHydrateReadFailure(t *testing.T) {
	t.Parallel()

	store := NewStore(failingPort{readErr: errors.New("disk gone")})
	err := store.Hydrate(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodePersistenceFailure {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodePersistenceFailure)
	}
	if diff := cmp.Diff(Initial(), store.State()); diff != "" {
		t.Fatalf("state (-want +got):\n%s", diff)
	}
}

func TestStoreWriteFailureKeepsReducedState(t *testing.T) {
	t.Parallel()

	store := NewStore(failingPort{readErr: sessionstate.ErrNotFound, writeErr: errors.New("quota")})
	err := store.SetAnswer(context.Background(), KeyGoal, Text(GoalSellArt))
	if apperrors.CodeOf(err) != apperrors.CodePersistenceFailure {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodePersistenceFailure)
	}
	if store.State().Path != PathArtist {
		t.Fatalf("path = %q, want %q", store.State().Path, PathArtist)
	}
}

func TestStoreGoToStepValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := sessionstate.Scoped(sessionstate.NewMemory(), "sid")
	store := NewStore(port)
	if err := store.GoToStep(ctx, Step("NOPE")); apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Fatalf("code = %q", apperrors.CodeOf(err))
	}
	if _, err := port.Read(ctx, StorageKey); !errors.Is(err, sessionstate.ErrNotFound) {
		t.Fatalf("rejected jump was persisted: %v", err)
	}
	if err := store.GoToStep(ctx, StepStoreName); err != nil {
		t.Fatalf("go to: %v", err)
	}
	if err := store.PrevStep(ctx); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if store.State().CurrentStep != StepGoal {
		t.Fatalf("step = %q", store.State().CurrentStep)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if diff := cmp.Diff(Initial(), store.State()); diff != "" {
		t.Fatalf("reset (-want +got):\n%s", diff)
	}
}
