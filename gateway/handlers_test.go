package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"messenger/auth"
	"messenger/domain"
	"messenger/errors"
	"messenger/mocks"
)

var secret = []byte("unit-test-secret")

func tokenFor(t *testing.T, number string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.CustomClaims{
		Number: number,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return token
}

func newHandlersUnderTest(t *testing.T) (*Handlers, *mocks.MockIConversationService, *mocks.MockIMessageService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationService(ctrl)
	messages := mocks.NewMockIMessageService(ctrl)
	verifier := auth.NewVerifier(secret)
	gate := auth.NewRoleGate(conversations)
	return NewHandlers(verifier, gate, conversations, messages), conversations, messages
}

func TestHandlers_Reject_Invalid_Token(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, _ := newHandlersUnderTest(t)

	// No domain call happens; the mocks expect nothing
	resp := handlers.GetConversations(ctx, "garbage")
	req.Equal(401, resp.StatusCode)
	req.Equal("Login to access this route", resp.Body.Message)

	resp = handlers.SendMessage(ctx, "", auth.SendMessageRequest{ReceiverID: "bob", Body: "hi"})
	req.Equal(401, resp.StatusCode)
}

func TestGetConversations_Counts_In_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, conversations, _ := newHandlersUnderTest(t)

	conversations.EXPECT().ListForUser(ctx, "alice").Return([]domain.Conversation{
		{ID: "conv-1"}, {ID: "conv-2"},
	}, nil)

	resp := handlers.GetConversations(ctx, tokenFor(t, "alice"))
	req.Equal(200, resp.StatusCode)
	req.Equal("2 conversations", resp.Body.Message)
}

func TestSendMessage_Success_Literal(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, messages := newHandlersUnderTest(t)

	messages.EXPECT().Send(ctx, "alice", "bob", "hello").Return(nil)

	resp := handlers.SendMessage(ctx, tokenFor(t, "alice"),
		auth.SendMessageRequest{ReceiverID: "bob", Body: "hello"})
	req.Equal(200, resp.StatusCode)
	req.Equal("Message Sent", resp.Body.Message)
}

func TestSendMessage_Validation_Failure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, _ := newHandlersUnderTest(t)

	resp := handlers.SendMessage(ctx, tokenFor(t, "alice"),
		auth.SendMessageRequest{ReceiverID: "bob", Body: ""})
	req.Equal(400, resp.StatusCode)
	req.Equal(StatusFailed, resp.Body.Status)
}

func TestSetGroupAdmin_Requires_Admin_Before_Validation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, conversations, _ := newHandlersUnderTest(t)

	// A participant caller is rejected even with an invalid role value:
	// the gate runs first
	conversations.EXPECT().FindRole(ctx, "group-1", "bob").Return(domain.RoleParticipant, nil)

	resp := handlers.SetGroupAdmin(ctx, tokenFor(t, "bob"), "group-1",
		auth.SetRoleRequest{MemberID: "clara", Role: "OWNER"})
	req.Equal(401, resp.StatusCode)
	req.Equal("User is not authorized to set admins", resp.Body.Message)
}

func TestSetGroupAdmin_Promotion(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, conversations, _ := newHandlersUnderTest(t)

	conversations.EXPECT().FindRole(ctx, "group-1", "alice").Return(domain.RoleAdmin, nil)
	conversations.EXPECT().SetMemberRole(ctx, "alice", "group-1", "bob", domain.RoleAdmin).Return(nil)

	resp := handlers.SetGroupAdmin(ctx, tokenFor(t, "alice"), "group-1",
		auth.SetRoleRequest{MemberID: "bob", Role: "ADMIN"})
	req.Equal(200, resp.StatusCode)
	req.Equal("User has been set as group admin", resp.Body.Message)
}

func TestSetGroupAdmin_Role_Conflict(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, conversations, _ := newHandlersUnderTest(t)

	conversations.EXPECT().FindRole(ctx, "group-1", "alice").Return(domain.RoleAdmin, nil)
	conversations.EXPECT().SetMemberRole(ctx, "alice", "group-1", "bob", domain.RoleAdmin).
		Return(errors.ErrRoleConflict)

	resp := handlers.SetGroupAdmin(ctx, tokenFor(t, "alice"), "group-1",
		auth.SetRoleRequest{MemberID: "bob", Role: "ADMIN"})
	req.Equal(409, resp.StatusCode)
	req.Equal("User is already an admin", resp.Body.Message)
}

func TestSetGroupStatus_Literal_Contains_Status(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, conversations, _ := newHandlersUnderTest(t)

	conversations.EXPECT().FindRole(ctx, "group-1", "alice").Return(domain.RoleAdmin, nil)
	conversations.EXPECT().SetStatus(ctx, "group-1", domain.StatusLocked).Return(nil)

	resp := handlers.SetGroupStatus(ctx, tokenFor(t, "alice"), "group-1",
		auth.SetStatusRequest{Status: "LOCKED"})
	req.Equal(200, resp.StatusCode)
	req.Equal("Group is LOCKED", resp.Body.Message)
}

func TestSendToGroup_Locked(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, messages := newHandlersUnderTest(t)

	messages.EXPECT().SendToGroup(ctx, "bob", "group-1", "hello").
		Return(errors.ErrGroupLocked)

	resp := handlers.SendToGroup(ctx, tokenFor(t, "bob"), "group-1", "hello")
	req.Equal(401, resp.StatusCode)
	req.Equal("Group has been locked by an admin", resp.Body.Message)
}

func TestEditMessage_Expired_Window(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, messages := newHandlersUnderTest(t)
	messageID := uuid.New()

	messages.EXPECT().Edit(ctx, messageID, "too late").Return(errors.ErrEditWindowExpired)

	resp := handlers.EditMessage(ctx, tokenFor(t, "alice"), messageID.String(), "too late")
	req.Equal(400, resp.StatusCode)
	req.Equal("Message cannot be edited", resp.Body.Message)
}

func TestEditMessage_Malformed_ID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, _ := newHandlersUnderTest(t)

	resp := handlers.EditMessage(ctx, tokenFor(t, "alice"), "not-a-uuid", "body")
	req.Equal(404, resp.StatusCode)
	req.Equal("Message not found", resp.Body.Message)
}

func TestDeleteMessageForSelf(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	handlers, _, messages := newHandlersUnderTest(t)
	messageID := uuid.New()

	messages.EXPECT().DeleteForSelf(ctx, "alice", messageID).Return(nil)

	resp := handlers.DeleteMessageForSelf(ctx, tokenFor(t, "alice"), messageID.String())
	req.Equal(200, resp.StatusCode)
	req.Equal("Message deleted", resp.Body.Message)
}
