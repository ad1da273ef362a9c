// Package domain contains core concepts of the messaging system.
// This file defines the Message entity.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat entry. CreatedAt is immutable once set.
// SenderID and ReceiverID are pointers because a self-delete nulls the
// caller's own slot while leaving the counterpart's view intact.
// ReceiverID is nil for group messages (broadcast).
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       *string
	ReceiverID     *string
	Body           string
	CreatedAt      time.Time
}

// SentBy reports whether userID currently occupies the sender slot.
func (m Message) SentBy(userID string) bool {
	return m.SenderID != nil && *m.SenderID == userID
}

// ReceivedBy reports whether userID currently occupies the receiver slot.
func (m Message) ReceivedBy(userID string) bool {
	return m.ReceiverID != nil && *m.ReceiverID == userID
}
