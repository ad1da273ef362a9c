package sink

import (
	"context"
	"sync"

	"messenger/domain/event"
)

// Timeline accumulates every delivered event in memory. It backs local
// clients and tests that need to assert on what a connection received.
type Timeline struct {
	mu     sync.Mutex
	Owner  string
	Events []event.ConversationEvent
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{Owner: owner}
}

func (t *Timeline) Consume(_ context.Context, e event.ConversationEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Events = append(t.Events, e)
	return nil
}

// Received returns a snapshot of the events delivered so far.
func (t *Timeline) Received() []event.ConversationEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]event.ConversationEvent, len(t.Events))
	copy(out, t.Events)
	return out
}
