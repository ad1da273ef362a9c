package sink

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"messenger/domain/event"
)

func TestChannelSink_Buffers_Events(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewChannelSink(2)

	first := event.MessageReceived{MessageID: uuid.New(), Conversation: "conv-1"}
	second := event.MessageReceived{MessageID: uuid.New(), Conversation: "conv-1"}
	req.NoError(s.Consume(ctx, first))
	req.NoError(s.Consume(ctx, second))

	req.Equal(first, <-s.Events)
	req.Equal(second, <-s.Events)
}

func TestChannelSink_Full_Buffer_Drops_Instead_Of_Blocking(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s := NewChannelSink(1)

	kept := event.MessageReceived{MessageID: uuid.New(), Conversation: "conv-1"}
	req.NoError(s.Consume(ctx, kept))

	// A slow client must not block delivery; the overflow event is lost
	req.NoError(s.Consume(ctx, event.MessageReceived{MessageID: uuid.New(), Conversation: "conv-1"}))

	req.Equal(kept, <-s.Events)
	req.Empty(s.Events)
}

func TestTimeline_Accumulates_In_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	timeline := NewTimeline("alice")

	first := event.MessageReceived{MessageID: uuid.New(), Conversation: "conv-1"}
	second := event.MessageEdited{MessageID: first.MessageID, Conversation: "conv-1"}
	req.NoError(timeline.Consume(ctx, first))
	req.NoError(timeline.Consume(ctx, second))

	received := timeline.Received()
	req.Len(received, 2)
	req.Equal(first, received[0])
	req.Equal(second, received[1])
}
