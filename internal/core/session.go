package core

// session.go keeps uploaded workbooks in memory between user actions.
//
// A session owns exactly one upload. Uploading again under the same session
// replaces the file, which invalidates everything derived from the old one.
// Idle sessions expire after the configured TTL and are removed by a
// periodic sweep; nothing is ever written to disk.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// DefaultMaxSessions caps the number of sessions held in memory.
const DefaultMaxSessions = 200

// Session is a snapshot of one user's current upload.
type Session struct {
	ID     string
	Upload *Upload
}

type sessionEntry struct {
	upload   *Upload
	lastSeen time.Time
}

// SessionStore is a mutex-guarded in-memory session map.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	max      int

	now func() time.Time
}

// NewSessionStore creates a store expiring sessions idle for longer than ttl
// and holding at most max sessions.
func NewSessionStore(ttl time.Duration, max int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
	}
}

// Create stores u under a new session id. When the store is full the least
// recently used session is evicted.
func (s *SessionStore) Create(u *Upload) Session {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		s.evictOldestLocked()
	}
	s.sessions[id] = &sessionEntry{upload: u, lastSeen: s.now()}
	return Session{ID: id, Upload: u}
}

// Replace swaps the upload of an existing session.
func (s *SessionStore) Replace(id string, u *Upload) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(id)
	if !ok {
		return Session{}, newError(KindNotFound, "upload", fmt.Errorf("session %q", id))
	}
	e.upload = u
	e.lastSeen = s.now()
	return Session{ID: id, Upload: u}, nil
}

// Get returns the session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.liveLocked(id)
	if !ok {
		return Session{}, newError(KindNotFound, "", fmt.Errorf("session %q", id))
	}
	e.lastSeen = s.now()
	return Session{ID: id, Upload: e.upload}, nil
}

// Delete removes a session. It reports whether the session existed.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of stored sessions, expired or not.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("session sweeper started", "interval", interval, "ttl", s.ttl)

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

func (s *SessionStore) liveLocked(id string) (*sessionEntry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	return e, true
}

func (s *SessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}
