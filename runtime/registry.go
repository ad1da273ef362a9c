package runtime

import (
	"sync"

	"messenger/contract"
)

// Registry tracks which connection handles are live for each user.
// It is the only component with contended mutable shared state: connect,
// disconnect and lookup race from independent network connections, so
// every access goes through the mutex and the raw maps are never exposed.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]map[string]contract.EventSink // userID -> handleID -> sink
	owners   map[string]string                        // handleID -> userID
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]map[string]contract.EventSink),
		owners:   make(map[string]string),
	}
}

// Connect registers a handle under userID. A user may hold several
// concurrent handles (multi-device); re-registering the same handle
// simply overwrites its sink, so the call is idempotent per handle.
func (r *Registry) Connect(userID, handleID string, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[userID]; !ok {
		r.sessions[userID] = make(map[string]contract.EventSink)
	}
	r.sessions[userID][handleID] = sink
	r.owners[handleID] = userID
}

// Disconnect removes the handle from whichever user it was registered
// under. Unknown handles are a no-op: a double disconnect during a
// racing teardown must not fail.
// Empty per-user sets are removed entirely to avoid leaking an entry
// for every user that ever connected.
func (r *Registry) Disconnect(handleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[handleID]
	if !ok {
		return
	}
	delete(r.owners, handleID)

	if handles, ok := r.sessions[userID]; ok {
		delete(handles, handleID)
		if len(handles) == 0 {
			delete(r.sessions, userID)
		}
	}
}

// Lookup returns the current live sinks for a user, possibly none.
// An offline user is an expected state, not an error.
func (r *Registry) Lookup(userID string) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handles, ok := r.sessions[userID]
	if !ok {
		return nil
	}
	sinks := make([]contract.EventSink, 0, len(handles))
	for _, sink := range handles {
		sinks = append(sinks, sink)
	}
	return sinks
}
