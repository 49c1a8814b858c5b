package chat

import "sync"

// SessionLocks serializes request handling per session identifier. The
// conversation store's read-modify-write cycle is not atomic, so two
// concurrent requests against one session would otherwise race and the
// later write would silently discard the earlier exchange. Locks are
// reference-counted and dropped once idle, so the map does not grow with
// the number of sessions ever seen.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewSessionLocks creates an empty lock registry.
func NewSessionLocks() *SessionLocks {
	return &SessionLocks{
		locks: make(map[string]*sessionLock),
	}
}

// Lock acquires the lock for a session id and returns its release func.
// Requests for different sessions never block each other.
func (l *SessionLocks) Lock(sessionID string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
