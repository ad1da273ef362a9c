// Package domain contains core concepts of the messaging system.
// This file defines Conversation, Membership and the closed role/status
// enumerations. No runtime, network, or storage logic should be added here.
package domain

import (
	"time"

	"messenger/errors"
)

// Kind distinguishes two-party conversations from named groups.
type Kind string

const (
	KindDirect Kind = "DIRECT"
	KindGroup  Kind = "GROUP"
)

// Status gates new messages on a group conversation.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusLocked Status = "LOCKED"
)

// ParseStatus rejects unknown values at the boundary so the domain
// only ever sees a closed enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusOpen, StatusLocked:
		return Status(s), nil
	}
	return "", errors.ErrUnknownStatus
}

// Role of a user inside a group conversation.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleParticipant Role = "PARTICIPANT"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleParticipant:
		return Role(s), nil
	}
	return "", errors.ErrUnknownRole
}

// Conversation aggregates an ordered set of memberships and, for direct
// conversations, the message history of its two parties.
// Name, Description, ImageRef and Status only carry meaning for groups.
type Conversation struct {
	ID          string
	Kind        Kind
	Name        string
	Description string
	ImageRef    string
	Status      Status
	CreatedAt   time.Time
	Members     []Membership
	Messages    []Message
}

// IsGroup reports whether the conversation carries group semantics
// (roles, status gate, admin-only mutations).
func (c Conversation) IsGroup() bool {
	return c.Kind == KindGroup
}

// Membership relates a user identity to a conversation with a role.
// A group must keep at least one ADMIN at all times; the creator is
// ADMIN at creation. Direct memberships carry PARTICIPANT by convention
// and no role distinction is enforced on them.
type Membership struct {
	ConversationID string
	UserID         string
	Role           Role
	JoinedAt       time.Time
}
