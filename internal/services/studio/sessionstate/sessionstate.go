// Package sessionstate is the key/value persistence port behind the
// session-scoped state containers (onboarding answers, wizard drafts).
//
// A browser session owns a scope; each container writes one named snapshot
// within it. Writes replace the whole snapshot, so concurrent writers to the
// same name are last-write-wins.
package sessionstate

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNotFound indicates no snapshot is stored under a name.
var ErrNotFound = errors.New("session state not found")

// Port reads and writes named snapshots for a single session scope.
type Port interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, payload []byte) error
	Delete(ctx context.Context, name string) error
}

// Backend persists snapshots for every scope.
type Backend interface {
	GetSessionState(ctx context.Context, scope string, name string) ([]byte, error)
	PutSessionState(ctx context.Context, scope string, name string, payload []byte) error
	DeleteSessionState(ctx context.Context, scope string, name string) error
}

type scopedPort struct {
	backend Backend
	scope   string
}

// Scoped binds backend to one session scope.
func Scoped(backend Backend, scope string) Port {
	return scopedPort{backend: backend, scope: strings.TrimSpace(scope)}
}

func (p scopedPort) Read(ctx context.Context, name string) ([]byte, error) {
	return p.backend.GetSessionState(ctx, p.scope, name)
}

func (p scopedPort) Write(ctx context.Context, name string, payload []byte) error {
	return p.backend.PutSessionState(ctx, p.scope, name, payload)
}

func (p scopedPort) Delete(ctx context.Context, name string) error {
	return p.backend.DeleteSessionState(ctx, p.scope, name)
}

// Memory is an in-process Backend, used by tests and single-process dev runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func memoryKey(scope, name string) string {
	return scope + "\x00" + name
}

// GetSessionState returns a copy of the stored snapshot.
func (m *Memory) GetSessionState(ctx context.Context, scope string, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[memoryKey(scope, name)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

// PutSessionState replaces the stored snapshot.
func (m *Memory) PutSessionState(ctx context.Context, scope string, name string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memoryKey(scope, name)] = append([]byte(nil), payload...)
	return nil
}

// DeleteSessionState removes a snapshot; deleting a missing one is not an error.
func (m *Memory) DeleteSessionState(ctx context.Context, scope string, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memoryKey(scope, name))
	return nil
}
