package repositories

import (
	"time"

	"github.com/google/uuid"

	"messenger/domain"
)

// Disk records are the JSON shapes persisted in BadgerDB. They are kept
// separate from the domain structs so the storage encoding can evolve
// without touching domain code.

type diskConversation struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type diskMembership struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at"`
}

type diskMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       *string   `json:"sender_id"`
	ReceiverID     *string   `json:"receiver_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

func fromConversation(c domain.Conversation) diskConversation {
	return diskConversation{
		ID:          c.ID,
		Kind:        string(c.Kind),
		Name:        c.Name,
		Description: c.Description,
		ImageRef:    c.ImageRef,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

func toConversation(d diskConversation) domain.Conversation {
	return domain.Conversation{
		ID:          d.ID,
		Kind:        domain.Kind(d.Kind),
		Name:        d.Name,
		Description: d.Description,
		ImageRef:    d.ImageRef,
		Status:      domain.Status(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}

func fromMembership(m domain.Membership) diskMembership {
	return diskMembership{
		ConversationID: m.ConversationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		JoinedAt:       m.JoinedAt,
	}
}

func toMembership(d diskMembership) domain.Membership {
	return domain.Membership{
		ConversationID: d.ConversationID,
		UserID:         d.UserID,
		Role:           domain.Role(d.Role),
		JoinedAt:       d.JoinedAt,
	}
}

func fromMessage(m domain.Message) diskMessage {
	return diskMessage{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessage(d diskMessage) domain.Message {
	return domain.Message{
		ID:             d.ID,
		ConversationID: d.ConversationID,
		SenderID:       d.SenderID,
		ReceiverID:     d.ReceiverID,
		Body:           d.Body,
		CreatedAt:      d.CreatedAt,
	}
}
