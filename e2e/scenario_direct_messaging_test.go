package e2e

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"messenger/auth"
	"messenger/domain"
)

type testDirectMessagingSuite struct {
	BaseSuite
}

func TestDirectMessagingSuite(t *testing.T) {
	suite.Run(t, &testDirectMessagingSuite{})
}

func (s *testDirectMessagingSuite) TestDirectConversationFlow() {
	ctx := context.Background()
	alice := s.TokenFor("alice")
	bob := s.TokenFor("bob")

	bobPhone := s.ConnectDevice("bob")
	bobLaptop := s.ConnectDevice("bob")

	s.Run("Step 1: First message creates the conversation lazily", func() {
		resp := s.Handlers.SendMessage(ctx, alice,
			auth.SendMessageRequest{ReceiverID: "bob", Body: "hello bob"})
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Message Sent", resp.Body.Message)

		// Both of Bob's devices got the live event
		s.Require().Len(bobPhone.Received(), 1)
		s.Require().Len(bobLaptop.Received(), 1)
	})

	s.Run("Step 2: The reply lands in the same conversation", func() {
		resp := s.Handlers.SendMessage(ctx, bob,
			auth.SendMessageRequest{ReceiverID: "alice", Body: "hi alice"})
		s.Require().Equal(200, resp.StatusCode)

		aliceConvs := s.listConversations(ctx, alice)
		bobConvs := s.listConversations(ctx, bob)
		s.Require().Len(aliceConvs, 1)
		s.Require().Len(bobConvs, 1)
		s.Require().Equal(aliceConvs[0].ID, bobConvs[0].ID)
		s.Require().Len(aliceConvs[0].Messages, 2)
	})

	s.Run("Step 3: Censored words are masked before storage", func() {
		resp := s.Handlers.SendMessage(ctx, alice,
			auth.SendMessageRequest{ReceiverID: "bob", Body: "what a badger"})
		s.Require().Equal(200, resp.StatusCode)

		history := s.listConversations(ctx, alice)[0].Messages
		s.Require().Equal("what a ******", history[len(history)-1].Body)
	})

	s.Run("Step 4: Edit inside the window notifies Bob", func() {
		history := s.listConversations(ctx, alice)[0].Messages
		target := history[0]

		resp := s.Handlers.EditMessage(ctx, alice, target.ID.String(), "hello bob!")
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Message has been updated", resp.Body.Message)

		received := bobPhone.Received()
		s.Require().Equal("edited_message", received[len(received)-1].EventType())

		history = s.listConversations(ctx, alice)[0].Messages
		s.Require().Equal("hello bob!", history[0].Body)
	})

	s.Run("Step 5: Delete for self hides only Alice's slot", func() {
		history := s.listConversations(ctx, alice)[0].Messages
		target := history[0]

		resp := s.Handlers.DeleteMessageForSelf(ctx, alice, target.ID.String())
		s.Require().Equal(200, resp.StatusCode)

		history = s.listConversations(ctx, bob)[0].Messages
		s.Require().Nil(history[0].SenderID)
		s.Require().NotNil(history[0].ReceiverID)
		s.Require().Equal("hello bob!", history[0].Body)
	})

	s.Run("Step 6: Hard delete removes the message and notifies Bob", func() {
		history := s.listConversations(ctx, alice)[0].Messages
		target := history[len(history)-1]

		resp := s.Handlers.DeleteMessage(ctx, alice, target.ID.String())
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Message deleted", resp.Body.Message)

		received := bobPhone.Received()
		s.Require().Equal("deleted_message", received[len(received)-1].EventType())

		remaining := s.listConversations(ctx, alice)[0].Messages
		s.Require().Len(remaining, len(history)-1)
	})

	s.Run("Step 7: Deleting the conversation clears Alice's list", func() {
		convID := s.listConversations(ctx, alice)[0].ID

		resp := s.Handlers.DeleteConversation(ctx, alice, convID)
		s.Require().Equal(200, resp.StatusCode)
		s.Require().Equal("Conversation deleted", resp.Body.Message)

		s.Require().Empty(s.listConversations(ctx, alice))
	})
}

func (s *testDirectMessagingSuite) listConversations(ctx context.Context, token string) []domain.Conversation {
	resp := s.Handlers.GetConversations(ctx, token)
	s.Require().Equal(200, resp.StatusCode)
	conversations, ok := resp.Body.Data.([]domain.Conversation)
	s.Require().True(ok)
	return conversations
}
