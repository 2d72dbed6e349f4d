package wizard

import (
	"context"
	"sync"

	"startup-onboarding/internal/common/auth"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/draft"
)

// Manager caches one live wizard per user so repeated requests reuse
// the same in-memory session instead of rehydrating from the draft
// store on every call.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Wizard

	store     draft.Store
	submitter Submitter
	recorder  Recorder
	logger    logger.Logger
}

func NewManager(store draft.Store, submitter Submitter, log logger.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Wizard),
		store:     store,
		submitter: submitter,
		logger:    log,
	}
}

// WithRecorder attaches a submission outcome recorder to sessions
// created after the call.
func (m *Manager) WithRecorder(rec Recorder) *Manager {
	m.recorder = rec
	return m
}

// Session returns the user's wizard, creating and rehydrating one on
// first use.
func (m *Manager) Session(ctx context.Context, user *auth.User) *Wizard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.sessions[user.ID]; ok {
		return w
	}
	w := New(ctx, user, m.store, m.submitter, m.recorder, m.logger)
	m.sessions[user.ID] = w
	return w
}

// Discard drops the user's cached session. Called after a successful
// submission so the next visit starts fresh.
func (m *Manager) Discard(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
