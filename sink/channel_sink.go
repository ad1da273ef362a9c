package sink

import (
	"context"

	"messenger/domain/event"
)

// ChannelSink bridges the fan-out layer and a transport handler owning
// a live client connection. Fanout pushes into the buffered channel;
// the transport goroutine drains Events and writes to the wire.
type ChannelSink struct {
	Events chan event.ConversationEvent
}

func NewChannelSink(bufferSize int) *ChannelSink {
	return &ChannelSink{Events: make(chan event.ConversationEvent, bufferSize)}
}

// Consume is called by fanout. A full buffer means the client is too
// slow to keep up; the event is dropped rather than blocking delivery
// to everyone else.
func (s *ChannelSink) Consume(ctx context.Context, e event.ConversationEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
