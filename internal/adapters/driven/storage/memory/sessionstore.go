// Package memory provides in-memory implementations of driven storage ports.
package memory

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultCleanupInterval is how often expired sessions are purged.
const DefaultCleanupInterval = 10 * time.Minute

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps conversation histories in a TTL map.
// A session expires after ttl without writes; a zero ttl never expires.
// When maxSessions is reached, the least recently written session is evicted.
type SessionStore struct {
	cache       *gocache.Cache
	maxSessions int

	mu  sync.Mutex
	seq uint64
}

// entry is a stored history and the order of its last write.
type entry struct {
	history domain.History
	written uint64
}

// NewSessionStore creates a session store. A non-positive maxSessions
// disables the size cap.
func NewSessionStore(ttl time.Duration, maxSessions int) *SessionStore {
	return &SessionStore{
		cache:       gocache.New(ttl, DefaultCleanupInterval),
		maxSessions: maxSessions,
	}
}

// Get returns a copy of the stored history.
func (s *SessionStore) Get(id string) (domain.History, bool) {
	val, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := val.(entry)
	if !ok {
		return nil, false
	}
	return e.history.Clone(), true
}

// Put stores a copy of history and refreshes its expiry.
func (s *SessionStore) Put(id string, history domain.History) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 {
		if _, exists := s.cache.Get(id); !exists && s.cache.ItemCount() >= s.maxSessions {
			s.evictOldest()
		}
	}
	s.seq++
	s.cache.SetDefault(id, entry{history: history.Clone(), written: s.seq})
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	return len(s.cache.Items())
}

// evictOldest removes the least recently written session. Callers hold mu.
func (s *SessionStore) evictOldest() {
	var (
		oldestID string
		oldest   uint64
	)
	for id, item := range s.cache.Items() {
		e, ok := item.Object.(entry)
		if !ok {
			continue
		}
		if oldestID == "" || e.written < oldest {
			oldestID = id
			oldest = e.written
		}
	}
	if oldestID != "" {
		s.cache.Delete(oldestID)
	}
}
