package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"messenger/contract"
	"messenger/domain"
	"messenger/domain/event"
	"messenger/errors"
	"messenger/moderation"
	"messenger/repositories"
)

type IMessageService interface {
	Send(ctx context.Context, senderID, receiverID, body string) error
	Edit(ctx context.Context, messageID uuid.UUID, newBody string) error
	Delete(ctx context.Context, messageID uuid.UUID) error
	DeleteForSelf(ctx context.Context, userID string, messageID uuid.UUID) error
	SendToGroup(ctx context.Context, userID, groupID, body string) error
}

// MessageService orchestrates direct and group messaging. It applies the
// mutability window, delegates membership and status checks to the
// conversation domain, and fans out live notifications on success.
// Non-empty-body validation belongs to the boundary, not here.
type MessageService struct {
	log           *slog.Logger
	messages      repositories.IMessageRepository
	conversations IConversationService
	fanout        contract.IFanout
	filter        moderation.Filter
	now           func() time.Time
}

func NewMessageService(log *slog.Logger, messages repositories.IMessageRepository,
	conversations IConversationService, fanout contract.IFanout,
	filter moderation.Filter) *MessageService {
	return &MessageService{
		log:           log,
		messages:      messages,
		conversations: conversations,
		fanout:        fanout,
		filter:        filter,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Send appends a message to the direct conversation between the two
// users, lazily creating it exactly once, then notifies the receiver's
// live connections.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, body string) error {
	conv, err := s.conversations.ResolveDirect(ctx, senderID, receiverID)
	if err != nil {
		return err
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       lo.ToPtr(senderID),
		ReceiverID:     lo.ToPtr(receiverID),
		Body:           s.filter.Mask(body),
		CreatedAt:      s.now(),
	}
	if err = s.messages.AppendMessage(message); err != nil {
		return err
	}

	s.fanout.Deliver(ctx, receiverID, event.MessageReceived{
		MessageID:    message.ID,
		Conversation: conv.ID,
		SenderID:     senderID,
		Body:         message.Body,
		At:           message.CreatedAt,
	})
	return nil
}

// Edit replaces the body of a message still inside the mutability
// window, then notifies the counterpart.
func (s *MessageService) Edit(ctx context.Context, messageID uuid.UUID, newBody string) error {
	message, err := s.messages.FindMessage(messageID)
	if err != nil {
		return err
	}
	if !domain.CanMutate(message.CreatedAt, s.now()) {
		return errors.ErrEditWindowExpired
	}

	masked := s.filter.Mask(newBody)
	if err = s.messages.UpdateMessageBody(messageID, masked); err != nil {
		return err
	}

	s.notifyCounterpart(ctx, message, event.MessageEdited{
		MessageID:    message.ID,
		Conversation: message.ConversationID,
		SenderID:     senderOf(message),
		Body:         masked,
	})
	return nil
}

// Delete hard-deletes a message still inside the mutability window, then
// notifies the counterpart.
func (s *MessageService) Delete(ctx context.Context, messageID uuid.UUID) error {
	message, err := s.messages.FindMessage(messageID)
	if err != nil {
		return err
	}
	if !domain.CanMutate(message.CreatedAt, s.now()) {
		return errors.ErrDeleteWindowExpired
	}
	if err = s.messages.DeleteMessage(messageID); err != nil {
		return err
	}

	s.notifyCounterpart(ctx, message, event.MessageDeleted{
		MessageID:    message.ID,
		Conversation: message.ConversationID,
		SenderID:     senderOf(message),
	})
	return nil
}

// DeleteForSelf nulls the caller's own sender or receiver slot. This is
// a private visibility change: no time window applies and nobody is
// notified. The counterpart keeps seeing the message.
func (s *MessageService) DeleteForSelf(_ context.Context, userID string, messageID uuid.UUID) error {
	return s.messages.NullifyMessageParty(messageID, userID)
}

// SendToGroup verifies membership, then the status gate, then appends a
// broadcast message (nil receiver) and delivers it to every member
// except the sender. A locked group still accepts messages from admins.
// The membership check runs first so a non-member never learns whether
// the group is locked.
func (s *MessageService) SendToGroup(ctx context.Context, userID, groupID, body string) error {
	role, err := s.conversations.FindRole(ctx, groupID, userID)
	if err != nil {
		return err
	}

	conv, err := s.conversations.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if conv.Status != domain.StatusOpen && role != domain.RoleAdmin {
		return errors.ErrGroupLocked
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: groupID,
		SenderID:       lo.ToPtr(userID),
		ReceiverID:     nil,
		Body:           s.filter.Mask(body),
		CreatedAt:      s.now(),
	}
	if err = s.messages.AppendMessage(message); err != nil {
		return err
	}

	s.conversations.Broadcast(ctx, groupID, userID, event.MessageReceived{
		MessageID:    message.ID,
		Conversation: groupID,
		SenderID:     userID,
		Body:         message.Body,
		At:           message.CreatedAt,
	})
	return nil
}

// notifyCounterpart routes a mutation event to the other side of a
// direct message, or to every other member for a group message.
func (s *MessageService) notifyCounterpart(ctx context.Context, message domain.Message, e event.ConversationEvent) {
	if message.ReceiverID != nil {
		s.fanout.Deliver(ctx, *message.ReceiverID, e)
		return
	}
	s.conversations.Broadcast(ctx, message.ConversationID, senderOf(message), e)
}

func senderOf(message domain.Message) string {
	if message.SenderID == nil {
		return ""
	}
	return *message.SenderID
}
