package e2e

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"messenger/auth"
	"messenger/domain"
)

type testGroupLifecycleSuite struct {
	BaseSuite
}

func TestGroupLifecycleSuite(t *testing.T) {
	suite.Run(t, &testGroupLifecycleSuite{})
}

func (s *testGroupLifecycleSuite) TestFullGroupLifecycle() {
	ctx := context.Background()
	alice := s.TokenFor("alice")
	bob := s.TokenFor("bob")
	clara := s.TokenFor("clara")

	var groupID string

	s.Run("Step 1: Alice creates a group with Bob", func() {
		resp := s.Handlers.CreateGroup(ctx, alice, auth.CreateGroupRequest{
			Name:        "holidays",
			Description: "trip planning",
			MemberIDs:   []string{"bob"},
		}, "img-1")
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Group created", resp.Body.Message)

		conv, ok := resp.Body.Data.(domain.Conversation)
		s.Require().True(ok)
		s.Require().Len(conv.Members, 2)
		groupID = conv.ID
	})

	s.Run("Step 2: Bob receives Alice's group message live", func() {
		bobDevice := s.ConnectDevice("bob")

		resp := s.Handlers.SendToGroup(ctx, alice, groupID, "shall we leave monday?")
		s.Require().Equal(200, resp.StatusCode)

		received := bobDevice.Received()
		s.Require().Len(received, 1)
		s.Require().Equal("message", received[0].EventType())
		s.Require().Equal(groupID, received[0].ConversationID())
	})

	s.Run("Step 3: Bob cannot promote before being admin", func() {
		resp := s.Handlers.SetGroupAdmin(ctx, bob, groupID,
			auth.SetRoleRequest{MemberID: "bob", Role: "ADMIN"})
		s.Require().Equal(401, resp.StatusCode)
		s.Require().Equal("User is not authorized to set admins", resp.Body.Message)
	})

	s.Run("Step 4: Alice promotes Bob, a second promotion conflicts", func() {
		resp := s.Handlers.SetGroupAdmin(ctx, alice, groupID,
			auth.SetRoleRequest{MemberID: "bob", Role: "ADMIN"})
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("User has been set as group admin", resp.Body.Message)

		resp = s.Handlers.SetGroupAdmin(ctx, alice, groupID,
			auth.SetRoleRequest{MemberID: "bob", Role: "ADMIN"})
		s.Require().Equal(409, resp.StatusCode)
		s.Require().Equal("User is already an admin", resp.Body.Message)
	})

	s.Run("Step 5: Bob locks the group", func() {
		resp := s.Handlers.SetGroupStatus(ctx, bob, groupID,
			auth.SetStatusRequest{Status: "LOCKED"})
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Group is LOCKED", resp.Body.Message)
	})

	s.Run("Step 6: A stranger hits the membership wall, not the lock", func() {
		resp := s.Handlers.SendToGroup(ctx, clara, groupID, "hello?")
		s.Require().Equal(401, resp.StatusCode)
		s.Require().Equal("User doesn't belong to this group", resp.Body.Message)
	})

	s.Run("Step 7: Clara joins, the lock now applies to her", func() {
		resp := s.Handlers.JoinGroup(ctx, clara, groupID)
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("User added to group", resp.Body.Message)

		resp = s.Handlers.SendToGroup(ctx, clara, groupID, "hello again?")
		s.Require().Equal(401, resp.StatusCode)
		s.Require().Equal("Group has been locked by an admin", resp.Body.Message)
	})

	s.Run("Step 8: Admins still speak while locked", func() {
		resp := s.Handlers.SendToGroup(ctx, alice, groupID, "locked for cleanup, back soon")
		s.Require().Equal(200, resp.StatusCode)
	})

	s.Run("Step 9: Reopening lets Clara speak", func() {
		resp := s.Handlers.SetGroupStatus(ctx, alice, groupID,
			auth.SetStatusRequest{Status: "OPEN"})
		s.Require().Equal(200, resp.StatusCode)

		resp = s.Handlers.SendToGroup(ctx, clara, groupID, "finally")
		s.Require().Equal(200, resp.StatusCode)
	})
}
