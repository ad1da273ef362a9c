package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"messenger/domain"
	"messenger/domain/event"
	"messenger/errors"
	"messenger/mocks"
)

func newConversationServiceUnderTest(t *testing.T) (*ConversationService,
	*mocks.MockIConversationRepository, *mocks.MockIFanout) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockIConversationRepository(ctrl)
	fanout := mocks.NewMockIFanout(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	return NewConversationService(log, repository, fanout), repository, fanout
}

func TestCreateGroup_Delegates_To_Store(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, repository, _ := newConversationServiceUnderTest(t)

	created := domain.Conversation{
		ID:   uuid.NewString(),
		Kind: domain.KindGroup,
		Members: []domain.Membership{
			{UserID: "alice", Role: domain.RoleAdmin},
			{UserID: "bob", Role: domain.RoleParticipant},
		},
	}
	repository.EXPECT().CreateGroup("alice", "holidays", "trip planning", "img-1", []string{"bob"}).
		Return(created, nil)

	conv, err := service.CreateGroup(ctx, "alice", "holidays", "trip planning", "img-1", []string{"bob"})
	req.NoError(err)
	req.Equal(created.ID, conv.ID)
}

func TestSetMemberRole_Propagates_Conflict(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, repository, _ := newConversationServiceUnderTest(t)

	repository.EXPECT().UpdateRole("group-1", "bob", domain.RoleAdmin).
		Return(errors.ErrRoleConflict)

	err := service.SetMemberRole(ctx, "alice", "group-1", "bob", domain.RoleAdmin)
	req.ErrorIs(err, errors.ErrRoleConflict)
}

func TestBroadcast_Excludes_One_Member(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, repository, fanout := newConversationServiceUnderTest(t)

	repository.EXPECT().Members("group-1").Return([]domain.Membership{
		{UserID: "alice"},
		{UserID: "bob"},
		{UserID: "clara"},
	}, nil)

	e := event.MessageReceived{Conversation: "group-1", SenderID: "alice"}
	var delivered []string
	fanout.EXPECT().Deliver(ctx, gomock.Any(), e).Times(2).Do(
		func(_ context.Context, userID string, _ event.ConversationEvent) {
			delivered = append(delivered, userID)
		})

	service.Broadcast(ctx, "group-1", "alice", e)
	req.ElementsMatch([]string{"bob", "clara"}, delivered)
}

func TestBroadcast_Member_Lookup_Failure_Delivers_Nothing(t *testing.T) {
	ctx := context.Background()
	service, repository, _ := newConversationServiceUnderTest(t)

	repository.EXPECT().Members("group-1").Return(nil, errors.ErrConversationNotFound)

	// The fanout mock expects no Deliver call
	service.Broadcast(ctx, "group-1", "alice", event.MessageReceived{Conversation: "group-1"})
}

func TestJoin_Is_Participant_By_Default(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, repository, _ := newConversationServiceUnderTest(t)

	repository.EXPECT().AddMember("group-1", "bob", domain.RoleParticipant).Return(nil)

	req.NoError(service.Join(ctx, "bob", "group-1"))
}
