package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deckgen/deckgen/internal/domain/entities"
	"github.com/deckgen/deckgen/internal/domain/ports"
)

// Session holds one user's conversion state between requests: the extracted
// text from their upload, the last generated outline, and the last built deck.
// Everything is in-memory and discarded when the session expires.
type Session struct {
	ID         string
	Filename   string
	Text       *entities.ExtractedText
	Outline    string
	Deck       *entities.Deck
	CreatedAt  time.Time
	LastActive time.Time
}

// SessionStore manages upload sessions keyed by ID. A janitor goroutine
// expires sessions idle past the TTL so abandoned uploads do not accumulate.
type SessionStore struct {
	sessions map[string]*Session
	ttl      time.Duration
	clock    ports.Clock
	mu       sync.RWMutex
	done     chan struct{}
}

// sweepInterval is how often the janitor scans for expired sessions
const sweepInterval = time.Minute

// NewSessionStore creates a session store with the given idle TTL
func NewSessionStore(ttl time.Duration, clock ports.Clock) *SessionStore {
	if clock == nil {
		clock = ports.NewRealClock()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		clock:    clock,
		done:     make(chan struct{}),
	}
}

// Run starts the janitor loop; it returns when the context is cancelled
func (st *SessionStore) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(st.done)
			return
		case <-ticker.C:
			st.expire()
		}
	}
}

// expire removes sessions idle past the TTL
func (st *SessionStore) expire() {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := st.clock.Now().Add(-st.ttl)
	for id, sess := range st.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}

// Create registers a new session for an uploaded document
func (st *SessionStore) Create(filename string, text *entities.ExtractedText) *Session {
	now := st.clock.Now()
	sess := &Session{
		ID:         uuid.New().String(),
		Filename:   filename,
		Text:       text,
		CreatedAt:  now,
		LastActive: now,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return sess
}

// Get returns the session with the given ID and refreshes its idle timer.
// The second return is false for unknown or already-expired IDs.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, false
	}

	// Lazy expiry so a Get between sweeps cannot resurrect a stale session
	if sess.LastActive.Before(st.clock.Now().Add(-st.ttl)) {
		delete(st.sessions, id)
		return nil, false
	}

	sess.LastActive = st.clock.Now()
	return sess, true
}

// SetOutline stores the latest generated outline text on the session
func (st *SessionStore) SetOutline(id string, outline string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return false
	}

	sess.Outline = outline
	sess.LastActive = st.clock.Now()
	return true
}

// SetDeck stores the latest built deck on the session, replacing any
// previous artifact
func (st *SessionStore) SetDeck(id string, deck *entities.Deck) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return false
	}

	sess.Deck = deck
	sess.LastActive = st.clock.Now()
	return true
}

// Remove deletes a session
func (st *SessionStore) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Count returns the number of live sessions
func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Clear drops all sessions
func (st *SessionStore) Clear() {
	st.mu.Lock()
	defer st.mu.Unlock()

	for id := range st.sessions {
		delete(st.sessions, id)
	}
}
