package runtime

import (
	"context"
	"log/slog"
	"time"

	"messenger/contract"
	"messenger/domain/event"
)

// Fanout routes events to the live connections of a target user.
//
// It provides best-effort delivery with no guarantees regarding ordering
// across receivers, durability, or retries. Fanout is not a message
// broker: an offline user receives nothing, and durable history is only
// reachable through the message store.
//
// Fanout is safe for concurrent use by multiple goroutines.
type Fanout struct {
	log         *slog.Logger
	registry    contract.IPresenceRegistry
	sinkTimeout time.Duration
}

func NewFanout(log *slog.Logger, registry contract.IPresenceRegistry, sinkTimeout time.Duration) *Fanout {
	return &Fanout{log: log, registry: registry, sinkTimeout: sinkTimeout}
}

// Deliver pushes the event to every live handle of userID. A handle that
// went stale mid-delivery is dropped silently; one slow or broken sink
// never fails the others. Push is a single sequential call per sink, so
// per-connection ordering follows the underlying transport.
func (f *Fanout) Deliver(ctx context.Context, userID string, e event.ConversationEvent) {
	sinks := f.registry.Lookup(userID)
	if len(sinks) == 0 {
		return
	}
	for _, sink := range sinks {
		f.push(ctx, userID, sink, e)
	}
}

func (f *Fanout) push(ctx context.Context, userID string, sink contract.EventSink, e event.ConversationEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, f.sinkTimeout)
	defer cancel()

	if err := sink.Consume(sinkCtx, e); err != nil {
		f.log.Debug("event dropped for stale connection",
			"user_id", userID,
			"conversation_id", e.ConversationID(),
			"type", e.EventType(),
			"error", err)
	}
}
