package testutil

import (
	"context"
	"sort"
	"sync"

	"tfi/obras-sociales-api/internal/core/obrasocial"
)

// MemoryScope is an in-memory obrasocial.Scope. Optional *Err fields make the
// matching store call fail.
type MemoryScope struct {
	ObrasSociales []obrasocial.ObraSocial
	Afiliados     []obrasocial.Afiliado

	ListErr          error
	FindObraErr      error
	FindAfiliadoErr  error
	WithConnectionFn func(ctx context.Context, fn func(ctx context.Context, store obrasocial.Store) error) error

	mu     sync.Mutex
	scopes int
	calls  []string
}

// WithConnection runs fn against the in-memory data.
func (m *MemoryScope) WithConnection(ctx context.Context, fn func(ctx context.Context, store obrasocial.Store) error) error {
	m.mu.Lock()
	m.scopes++
	m.mu.Unlock()

	if m.WithConnectionFn != nil {
		return m.WithConnectionFn(ctx, fn)
	}
	return fn(ctx, &memoryStore{scope: m})
}

// Scopes returns how many scopes were opened.
func (m *MemoryScope) Scopes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scopes
}

// Calls returns the store methods invoked, in order.
func (m *MemoryScope) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MemoryScope) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

type memoryStore struct {
	scope *MemoryScope
}

func (s *memoryStore) ListObrasSociales(_ context.Context) ([]obrasocial.ObraSocial, error) {
	s.scope.record("ListObrasSociales")
	if s.scope.ListErr != nil {
		return nil, s.scope.ListErr
	}
	obras := append([]obrasocial.ObraSocial{}, s.scope.ObrasSociales...)
	sort.Slice(obras, func(i, j int) bool { return obras[i].ID < obras[j].ID })
	return obras, nil
}

func (s *memoryStore) FindObraSocial(_ context.Context, id int64) (*obrasocial.ObraSocial, error) {
	s.scope.record("FindObraSocial")
	if s.scope.FindObraErr != nil {
		return nil, s.scope.FindObraErr
	}
	for _, o := range s.scope.ObrasSociales {
		if o.ID == id {
			obra := o
			return &obra, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) FindAfiliado(_ context.Context, numeroAfiliado string, obraSocialID int64) (*obrasocial.Afiliado, error) {
	s.scope.record("FindAfiliado")
	if s.scope.FindAfiliadoErr != nil {
		return nil, s.scope.FindAfiliadoErr
	}
	for _, a := range s.scope.Afiliados {
		if a.NumeroAfiliado == numeroAfiliado && a.ObraSocialID == obraSocialID {
			afiliado := a
			return &afiliado, nil
		}
	}
	return nil, nil
}
