package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	apperrors "github.com/louisbranch/printstudio/internal/platform/errors"
	"github.com/louisbranch/printstudio/internal/platform/id"
	"github.com/louisbranch/printstudio/internal/services/studio/sessionstate"
)

// IDGenerator returns new draft identifiers.
type IDGenerator func() (string, error)

// Store owns one session's draft.
type Store struct {
	port  sessionstate.Port
	newID IDGenerator

	mu    sync.Mutex
	state State
}

// NewStore returns a store with no draft loaded; call Hydrate first.
// A nil generator uses id.NewID.
func NewStore(port sessionstate.Port, newID IDGenerator) *Store {
	if newID == nil {
		newID = id.NewID
	}
	return &Store{port: port, newID: newID}
}

// Hydrate loads the persisted draft. When nothing usable is stored it starts
// a fresh draft and persists it, so the draft id stays stable across requests.
func (s *Store) Hydrate(ctx context.Context) error {
	payload, err := s.port.Read(ctx, StorageKey)
	if err != nil && !errors.Is(err, sessionstate.ErrNotFound) {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "read wizard state", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		var decoded State
		if json.Unmarshal(payload, &decoded) == nil {
			if state, ok := normalize(decoded); ok {
				s.state = state
				return nil
			}
		}
	}
	fresh, err := s.fresh()
	if err != nil {
		return err
	}
	if err := s.persist(ctx, fresh); err != nil {
		return err
	}
	s.state = fresh
	return nil
}

func (s *Store) fresh() (State, error) {
	draftID, err := s.newID()
	if err != nil {
		return State{}, apperrors.Wrap(apperrors.CodeUnknown, "generate draft id", err)
	}
	return New(draftID), nil
}

// State returns a copy of the current draft.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// UpdateProduct merges a product patch.
func (s *Store) UpdateProduct(ctx context.Context, patch ProductPatch) error {
	return s.apply(ctx, func(state State) (State, error) {
		return UpdateProduct(state, patch), nil
	})
}

// UpdateDesign merges a design patch.
func (s *Store) UpdateDesign(ctx context.Context, patch DesignPatch) error {
	return s.apply(ctx, func(state State) (State, error) {
		return UpdateDesign(state, patch)
	})
}

// UpdateVariants merges a variants patch.
func (s *Store) UpdateVariants(ctx context.Context, patch VariantsPatch) error {
	return s.apply(ctx, func(state State) (State, error) {
		return UpdateVariants(state, patch)
	})
}

// UpdateSettings merges a settings patch.
func (s *Store) UpdateSettings(ctx context.Context, patch SettingsPatch) error {
	return s.apply(ctx, func(state State) (State, error) {
		return UpdateSettings(state, patch)
	})
}

// Reset discards the draft and starts a new one under a new draft id.
func (s *Store) Reset(ctx context.Context) error {
	return s.apply(ctx, func(State) (State, error) {
		return s.fresh()
	})
}

func (s *Store) apply(ctx context.Context, reduce func(State) (State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DraftID == "" {
		fresh, err := s.fresh()
		if err != nil {
			return err
		}
		s.state = fresh
	}
	next, err := reduce(s.state)
	if err != nil {
		return err
	}
	s.state = next
	return s.persist(ctx, next)
}

func (s *Store) persist(ctx context.Context, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "encode wizard state", err)
	}
	if err := s.port.Write(ctx, StorageKey, payload); err != nil {
		return apperrors.Wrap(apperrors.CodePersistenceFailure, "write wizard state", err)
	}
	return nil
}
