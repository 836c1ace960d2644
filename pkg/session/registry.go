package session

import "sync"

// Registry maps MCP connection IDs to their authenticated Session.
// Distinct connections run fully independently; the registry is the
// only place their sessions meet, so it is safe for concurrent use.
// Entries are held in process memory only and removed on disconnect.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Put binds a session to a connection ID.
func (r *Registry) Put(connID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = s
}

// Get returns the session bound to a connection ID, or nil.
func (r *Registry) Get(connID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[connID]
}

// Delete removes a connection's session.
func (r *Registry) Delete(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
}

// Keys returns the connection IDs with a bound session.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		keys = append(keys, id)
	}
	return keys
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
