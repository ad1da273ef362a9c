package event

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMarshal_MessageReceived(t *testing.T) {
	req := require.New(t)
	messageID := uuid.New()

	bytes, err := Marshal(MessageReceived{
		MessageID:    messageID,
		Conversation: "conv-1",
		SenderID:     "alice",
		Body:         "hello",
		At:           time.Now().UTC(),
	})
	req.NoError(err)

	var got map[string]any
	req.NoError(json.Unmarshal(bytes, &got))
	req.Equal("message", got["type"])
	req.Equal("conv-1", got["conversationId"])
	req.Equal("alice", got["senderId"])
	req.Equal("hello", got["body"])
	req.Equal(messageID.String(), got["messageId"])
}

func TestMarshal_MessageEdited(t *testing.T) {
	req := require.New(t)
	messageID := uuid.New()

	bytes, err := Marshal(MessageEdited{
		MessageID:    messageID,
		Conversation: "conv-1",
		SenderID:     "alice",
		Body:         "hello again",
	})
	req.NoError(err)

	var got map[string]any
	req.NoError(json.Unmarshal(bytes, &got))
	req.Equal("edited_message", got["type"])
	req.Equal("hello again", got["body"])
	req.Equal(messageID.String(), got["messageId"])
}

func TestMarshal_MessageDeleted_Omits_Body(t *testing.T) {
	req := require.New(t)

	bytes, err := Marshal(MessageDeleted{
		MessageID:    uuid.New(),
		Conversation: "conv-1",
		SenderID:     "alice",
	})
	req.NoError(err)

	var got map[string]any
	req.NoError(json.Unmarshal(bytes, &got))
	req.Equal("deleted_message", got["type"])
	req.NotContains(got, "body")
}
