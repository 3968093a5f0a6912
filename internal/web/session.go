// Package web provides the HTTP server and web UI for the RetailTunes dashboard.
package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/justestif/retailtunes/internal/dashboard"
)

const sessionCookieName = "session_id"

// Session is one browser session and the dashboard it has mounted.
type Session struct {
	ID        string
	Dashboard *dashboard.Dashboard
	CreatedAt time.Time
	LastSeen  time.Time
}

// SessionStore keeps sessions in memory. Expired or deleted sessions have
// their dashboard closed, which cancels any pending refresh.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	ttl          time.Duration
	now          func() time.Time
	newDashboard func(id string) *dashboard.Dashboard
}

// NewSessionStore creates a session store. newDashboard mounts the dashboard
// for a new session.
func NewSessionStore(ttl time.Duration, newDashboard func(id string) *dashboard.Dashboard) *SessionStore {
	return &SessionStore{
		sessions:     make(map[string]*Session),
		ttl:          ttl,
		now:          time.Now,
		newDashboard: newDashboard,
	}
}

// Create starts a new session with a freshly mounted dashboard.
func (s *SessionStore) Create() (*Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &Session{
		ID:        id,
		Dashboard: s.newDashboard(id),
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()

	return session, nil
}

// Get retrieves a session by ID and marks it as seen. It returns nil for
// unknown or expired sessions.
func (s *SessionStore) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}

	now := s.now()
	if now.Sub(session.LastSeen) > s.ttl {
		delete(s.sessions, id)
		session.Dashboard.Close()
		return nil
	}

	session.LastSeen = now
	return session
}

// Delete removes a session and unmounts its dashboard.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		session.Dashboard.Close()
	}
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// DeleteExpired removes every session idle for longer than the TTL and
// returns how many were removed.
func (s *SessionStore) DeleteExpired() int {
	s.mu.Lock()
	now := s.now()
	var expired []*Session
	for id, session := range s.sessions {
		if now.Sub(session.LastSeen) > s.ttl {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Dashboard.Close()
	}
	return len(expired)
}

// Close unmounts every dashboard and empties the store.
func (s *SessionStore) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Dashboard.Close()
	}
}

// GetFromRequest extracts the session from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil
	}
	return s.Get(cookie.Value)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateSessionID creates a cryptographically random session ID.
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
