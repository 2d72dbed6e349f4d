package draft

import (
	"context"
	"sync"

	"startup-onboarding/internal/onboarding/form"
)

// Store persists in-progress onboarding state between sessions. The
// draft snapshot and the current step number are kept under separate
// keys so either can be rehydrated independently.
//
// All operations are best-effort: a failed read reports absence and a
// failed write is dropped. The wizard never blocks on the store.
type Store interface {
	LoadDraft(ctx context.Context, userID string) (*form.StartupFormData, bool)
	SaveDraft(ctx context.Context, userID string, data *form.StartupFormData)
	LoadStep(ctx context.Context, userID string) (int, bool)
	SaveStep(ctx context.Context, userID string, step int)
	Clear(ctx context.Context, userID string)
}

// MemoryStore is an in-process Store used in tests and as a fallback
// when no Redis backend is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*form.StartupFormData
	steps  map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts: make(map[string]*form.StartupFormData),
		steps:  make(map[string]int),
	}
}

func (s *MemoryStore) LoadDraft(_ context.Context, userID string) (*form.StartupFormData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[userID]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

func (s *MemoryStore) SaveDraft(_ context.Context, userID string, data *form.StartupFormData) {
	if data == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = data.Clone()
}

func (s *MemoryStore) LoadStep(_ context.Context, userID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	step, ok := s.steps[userID]
	return step, ok
}

func (s *MemoryStore) SaveStep(_ context.Context, userID string, step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[userID] = step
}

func (s *MemoryStore) Clear(_ context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	delete(s.steps, userID)
}
