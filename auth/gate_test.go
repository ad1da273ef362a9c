package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"messenger/domain"
	"messenger/errors"
	"messenger/mocks"
)

func TestRequireAdmin_Admin_Passes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationService(ctrl)
	gate := NewRoleGate(conversations)

	conversations.EXPECT().FindRole(ctx, "group-1", "alice").Return(domain.RoleAdmin, nil)

	req.NoError(gate.RequireAdmin(ctx, "group-1", "alice"))
}

func TestRequireAdmin_Participant_Rejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationService(ctrl)
	gate := NewRoleGate(conversations)

	conversations.EXPECT().FindRole(ctx, "group-1", "bob").Return(domain.RoleParticipant, nil)

	err := gate.RequireAdmin(ctx, "group-1", "bob")
	req.ErrorIs(err, errors.ErrNotAdmin)
}

func TestRequireAdmin_Non_Member_Rejected_Same_Way(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationService(ctrl)
	gate := NewRoleGate(conversations)

	// A non-member gets the same answer as a participant, leaking no
	// membership state
	conversations.EXPECT().FindRole(ctx, "group-1", "mallory").
		Return(domain.Role(""), errors.ErrNotGroupMember)

	err := gate.RequireAdmin(ctx, "group-1", "mallory")
	req.ErrorIs(err, errors.ErrNotAdmin)
}
