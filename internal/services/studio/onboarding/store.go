package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

// StorageKey names the onboarding snapshot in the session-state port.
const StorageKey = "onboarding-storage"

// Store owns one session's questionnaire state. It does not load on
// construction; call Hydrate before reading persisted progress.
type Store struct {
	port sessionstate.Port

	mu       sync.Mutex
	state    State
	hydrated bool
}

// NewStore returns a Store holding the initial state.
func NewStore(port sessionstate.Port) *Store {
	return &Store{port: port, state: Initial()}
}

// Hydrate loads the persisted snapshot. A missing or unreadable snapshot
// leaves the store at the initial state.
func (s *Store) Hydrate(ctx context.Context) error {
	payload, err := s.port.Read(ctx, StorageKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrated = true
	if err != nil {
		s.state = Initial()
		if errors.Is(err, sessionstate.ErrNotFound) {
			return nil
		}
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "read onboarding state", err)
	}
	s.state = decodeSnapshot(payload)
	return nil
}

func decodeSnapshot(payload []byte) State {
	var decoded State
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return Initial()
	}
	state, ok := normalize(decoded)
	if !ok {
		return Initial()
	}
	return state
}

// Hydrated reports whether Hydrate has run.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// State returns a copy of the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetAnswer records an answer.
func (s *Store) SetAnswer(ctx context.Context, key string, answer Answer) error {
	return s.apply(ctx, func(state State) (State, error) {
		return SetAnswer(state, key, answer), nil
	})
}

// NextStep advances the questionnaire.
func (s *Store) NextStep(ctx context.Context) error {
	return s.apply(ctx, func(state State) (State, error) {
		return NextStep(state), nil
	})
}

// PrevStep goes back one step.
func (s *Store) PrevStep(ctx context.Context) error {
	return s.apply(ctx, func(state State) (State, error) {
		return PrevStep(state), nil
	})
}

// GoToStep jumps to step.
func (s *Store) GoToStep(ctx context.Context, step Step) error {
	return s.apply(ctx, func(state State) (State, error) {
		return GoToStep(state, step)
	})
}

// Reset clears all progress.
func (s *Store) Reset(ctx context.Context) error {
	return s.apply(ctx, func(state State) (State, error) {
		return Reset(state), nil
	})
}

// apply reduces, commits in memory, then writes the whole snapshot.
func (s *Store) apply(ctx context.Context, reduce func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := reduce(s.state)
	if err != nil {
		return err
	}
	s.state = next
	payload, err := json.Marshal(next)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "encode onboarding state", err)
	}
	if err := s.port.Write(ctx, StorageKey, payload); err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "write onboarding state", err)
	}
	return nil
}
