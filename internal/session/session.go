// Package session holds the logged-in user for the life of the process. It
// replaces the ambient "is logged in" flag of earlier revisions with an
// explicit object handed to whichever component needs authorization context.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amanthanvi/assetvault/internal/storage"
)

// Session is a snapshot of the authenticated user. It is a value: mutating a
// copy never affects the manager's state.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	FullName  string
	StartedAt time.Time
}

// Manager owns at most one live session. All methods are safe for concurrent
// use, though the registry assumes a single logical session at a time.
type Manager struct {
	mu      sync.Mutex
	current *Session
}

func NewManager() *Manager {
	return &Manager{}
}

// Start begins a session for user, replacing any existing one.
func (m *Manager) Start(user *storage.User) Session {
	session := Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		StartedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()
	return session
}

// Restore installs a previously started session, preserving its identity.
// The CLI uses it to rehydrate state persisted between invocations.
func (m *Manager) Restore(session Session) {
	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()
}

// Current reports the live session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// End clears the live session and reports whether one was active.
func (m *Manager) End() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return false
	}
	m.current = nil
	return true
}
