// Package event defines the live-notification events pushed to connected
// clients. The wire vocabulary is closed: "message", "edited_message" and
// "deleted_message". Events are routed per receiver by the fan-out layer;
// durable history is only available through the message store.
package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeMessage        = "message"
	TypeEditedMessage  = "edited_message"
	TypeDeletedMessage = "deleted_message"
)

// ConversationEvent is anything deliverable to a live connection.
type ConversationEvent interface {
	ConversationID() string
	EventType() string
}

// MessageReceived notifies a receiver of a new direct or group message.
type MessageReceived struct {
	MessageID    uuid.UUID
	Conversation string
	SenderID     string
	Body         string
	At           time.Time
}

func (e MessageReceived) ConversationID() string { return e.Conversation }
func (e MessageReceived) EventType() string      { return TypeMessage }

// MessageEdited notifies the counterpart that a message body changed.
type MessageEdited struct {
	MessageID    uuid.UUID
	Conversation string
	SenderID     string
	Body         string
}

func (e MessageEdited) ConversationID() string { return e.Conversation }
func (e MessageEdited) EventType() string      { return TypeEditedMessage }

// MessageDeleted notifies the counterpart that a message was hard-deleted.
type MessageDeleted struct {
	MessageID    uuid.UUID
	Conversation string
	SenderID     string
}

func (e MessageDeleted) ConversationID() string { return e.Conversation }
func (e MessageDeleted) EventType() string      { return TypeDeletedMessage }

// payload is the client-facing JSON shape shared by all event types.
type payload struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Body           string `json:"body,omitempty"`
	MessageID      string `json:"messageId,omitempty"`
}

// Marshal renders an event into its client-facing JSON payload.
func Marshal(e ConversationEvent) ([]byte, error) {
	p := payload{
		Type:           e.EventType(),
		ConversationID: e.ConversationID(),
	}
	switch evt := e.(type) {
	case MessageReceived:
		p.SenderID = evt.SenderID
		p.Body = evt.Body
		p.MessageID = evt.MessageID.String()
	case MessageEdited:
		p.SenderID = evt.SenderID
		p.Body = evt.Body
		p.MessageID = evt.MessageID.String()
	case MessageDeleted:
		p.SenderID = evt.SenderID
		p.MessageID = evt.MessageID.String()
	}
	return json.Marshal(p)
}
