package server

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// ManagerStats is a snapshot of session counts.
type ManagerStats struct {
	Active       int
	TotalCreated int64
	TotalClosed  int64
	Peak         int
}

// SessionManager tracks the live sessions of a server.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	maxSessions int
	deps        sessionDeps

	totalCreated int64
	totalClosed  int64
	peak         int

	logger *slog.Logger
}

func newSessionManager(maxSessions int, deps sessionDeps) *SessionManager {
	sm := &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
		logger:      deps.logger.With("component", "session_manager"),
	}
	deps.onClose = sm.remove
	sm.deps = deps
	return sm
}

// Create registers a session for conn, mounted at path. It fails with
// ErrMaxSessionsReached when the session limit is reached.
func (sm *SessionManager) Create(conn *websocket.Conn, app vdom.Component, path string) (*Session, error) {
	sm.mu.Lock()
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}
	session := newSession(conn, app, path, sm.deps)
	sm.sessions[session.ID] = session
	sm.totalCreated++
	if len(sm.sessions) > sm.peak {
		sm.peak = len(sm.sessions)
	}
	sm.mu.Unlock()

	sm.deps.observer.SessionOpened()
	sm.logger.Info("session created", "session_id", session.ID, "path", session.tree.Path())
	return session, nil
}

// remove is called once per session when it closes.
func (sm *SessionManager) remove(session *Session) {
	sm.mu.Lock()
	_, ok := sm.sessions[session.ID]
	if ok {
		delete(sm.sessions, session.ID)
		sm.totalClosed++
	}
	sm.mu.Unlock()

	if ok {
		sm.deps.observer.SessionClosed()
		sm.logger.Info("session closed", "session_id", session.ID)
	}
}

// Get returns the session with id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.sessions[id]
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

// Stats returns a snapshot of session counts.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return ManagerStats{
		Active:       len(sm.sessions),
		TotalCreated: sm.totalCreated,
		TotalClosed:  sm.totalClosed,
		Peak:         sm.peak,
	}
}

// Shutdown closes every session.
func (sm *SessionManager) Shutdown() {
	sm.mu.Lock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
