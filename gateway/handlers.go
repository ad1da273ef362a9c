package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"messenger/auth"
	"messenger/domain"
	"messenger/errors"
	"messenger/services"
)

// Handlers is the transport-agnostic boundary of the engine. Each method
// verifies the caller's token, validates the request shape, runs the
// role gate where the operation is admin-only, invokes the domain and
// renders the response envelope. A transport (HTTP, gRPC, websocket)
// only parses requests and forwards them here.
type Handlers struct {
	verifier      auth.Verifier
	roleGate      auth.RoleGate
	conversations services.IConversationService
	messages      services.IMessageService
}

func NewHandlers(verifier auth.Verifier, roleGate auth.RoleGate,
	conversations services.IConversationService, messages services.IMessageService) *Handlers {
	return &Handlers{
		verifier:      verifier,
		roleGate:      roleGate,
		conversations: conversations,
		messages:      messages,
	}
}

// GetConversations lists the caller's conversations with nested history.
func (h *Handlers) GetConversations(ctx context.Context, token string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	conversations, err := h.conversations.ListForUser(ctx, userID)
	if err != nil {
		return FromError(err)
	}
	return Success(fmt.Sprintf("%d conversations", len(conversations)), conversations)
}

func (h *Handlers) GetConversation(ctx context.Context, token, id string) Response {
	if _, err := h.verifier.ValidateToken(token); err != nil {
		return FromError(err)
	}
	conversation, err := h.conversations.Get(ctx, id)
	if err != nil {
		return FromError(err)
	}
	return Success("Conversation found", conversation)
}

func (h *Handlers) DeleteConversation(ctx context.Context, token, id string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = h.conversations.Delete(ctx, userID, id); err != nil {
		return FromError(err)
	}
	return Success("Conversation deleted", nil)
}

func (h *Handlers) CreateGroup(ctx context.Context, token string, req auth.CreateGroupRequest, imageRef string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = auth.ValidateCreateGroup(req); err != nil {
		return Failure(400, err.Error())
	}
	conversation, err := h.conversations.CreateGroup(ctx, userID, req.Name, req.Description, imageRef, req.MemberIDs)
	if err != nil {
		return FromError(err)
	}
	return Success("Group created", conversation)
}

// SetGroupAdmin is admin-only: the role gate runs before the domain.
func (h *Handlers) SetGroupAdmin(ctx context.Context, token, groupID string, req auth.SetRoleRequest) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = h.roleGate.RequireAdmin(ctx, groupID, userID); err != nil {
		return FromError(err)
	}
	if err = auth.ValidateSetRole(req); err != nil {
		return Failure(400, err.Error())
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return FromError(err)
	}
	if err = h.conversations.SetMemberRole(ctx, userID, groupID, req.MemberID, role); err != nil {
		return FromError(err)
	}
	return Success("User has been set as group admin", nil)
}

// SetGroupStatus is admin-only.
func (h *Handlers) SetGroupStatus(ctx context.Context, token, groupID string, req auth.SetStatusRequest) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = h.roleGate.RequireAdmin(ctx, groupID, userID); err != nil {
		return FromError(err)
	}
	if err = auth.ValidateSetStatus(req); err != nil {
		return Failure(400, err.Error())
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return FromError(err)
	}
	if err = h.conversations.SetStatus(ctx, groupID, status); err != nil {
		return FromError(err)
	}
	return Success(fmt.Sprintf("Group is %s", status), nil)
}

func (h *Handlers) JoinGroup(ctx context.Context, token, groupID string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = h.conversations.Join(ctx, userID, groupID); err != nil {
		return FromError(err)
	}
	return Success("User added to group", nil)
}

func (h *Handlers) SendMessage(ctx context.Context, token string, req auth.SendMessageRequest) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = auth.ValidateSendMessage(req); err != nil {
		return Failure(400, err.Error())
	}
	if err = h.messages.Send(ctx, userID, req.ReceiverID, req.Body); err != nil {
		return FromError(err)
	}
	return Success("Message Sent", nil)
}

func (h *Handlers) EditMessage(ctx context.Context, token, messageID, newBody string) Response {
	if _, err := h.verifier.ValidateToken(token); err != nil {
		return FromError(err)
	}
	id, err := uuid.Parse(messageID)
	if err != nil {
		return FromError(errors.ErrMessageNotFound)
	}
	if err = h.messages.Edit(ctx, id, newBody); err != nil {
		return FromError(err)
	}
	return Success("Message has been updated", nil)
}

func (h *Handlers) DeleteMessage(ctx context.Context, token, messageID string) Response {
	if _, err := h.verifier.ValidateToken(token); err != nil {
		return FromError(err)
	}
	id, err := uuid.Parse(messageID)
	if err != nil {
		return FromError(errors.ErrMessageNotFound)
	}
	if err = h.messages.Delete(ctx, id); err != nil {
		return FromError(err)
	}
	return Success("Message deleted", nil)
}

func (h *Handlers) DeleteMessageForSelf(ctx context.Context, token, messageID string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	id, err := uuid.Parse(messageID)
	if err != nil {
		return FromError(errors.ErrMessageNotFound)
	}
	if err = h.messages.DeleteForSelf(ctx, userID, id); err != nil {
		return FromError(err)
	}
	return Success("Message deleted", nil)
}

func (h *Handlers) SendToGroup(ctx context.Context, token, groupID, body string) Response {
	userID, err := h.verifier.ValidateToken(token)
	if err != nil {
		return FromError(err)
	}
	if err = auth.ValidateSendMessage(auth.SendMessageRequest{ReceiverID: groupID, Body: body}); err != nil {
		return Failure(400, err.Error())
	}
	if err = h.messages.SendToGroup(ctx, userID, groupID, body); err != nil {
		return FromError(err)
	}
	return Success("Message sent", nil)
}
