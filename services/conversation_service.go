//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_services.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"

	"messenger/contract"
	"messenger/domain"
	"messenger/domain/event"
	"messenger/repositories"
)

type IConversationService interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	Get(ctx context.Context, id string) (domain.Conversation, error)
	Delete(ctx context.Context, userID, id string) error
	CreateGroup(ctx context.Context, creatorID, name, description, imageRef string, memberIDs []string) (domain.Conversation, error)
	SetMemberRole(ctx context.Context, actorID, groupID, targetID string, role domain.Role) error
	SetStatus(ctx context.Context, groupID string, status domain.Status) error
	Join(ctx context.Context, userID, groupID string) error
	ResolveDirect(ctx context.Context, a, b string) (domain.Conversation, error)
	FindRole(ctx context.Context, groupID, userID string) (domain.Role, error)
	Members(ctx context.Context, convID string) ([]domain.Membership, error)
	Broadcast(ctx context.Context, convID, excludeUserID string, e event.ConversationEvent)
}

// ConversationService owns conversation and group invariants: membership,
// role assignment and the OPEN/LOCKED gate. Authorization (is the caller
// an admin, is the token valid) happened at the boundary before any of
// these methods run; only invariants that depend on stored state are
// re-validated here.
type ConversationService struct {
	log          *slog.Logger
	conversation repositories.IConversationRepository
	fanout       contract.IFanout
}

func NewConversationService(log *slog.Logger, conversation repositories.IConversationRepository,
	fanout contract.IFanout) *ConversationService {
	return &ConversationService{log: log, conversation: conversation, fanout: fanout}
}

// ListForUser returns every conversation the user is a member of, with
// nested history for direct conversations. No side effects.
func (s *ConversationService) ListForUser(_ context.Context, userID string) ([]domain.Conversation, error) {
	return s.conversation.FindConversationsByUser(userID)
}

func (s *ConversationService) Get(_ context.Context, id string) (domain.Conversation, error) {
	return s.conversation.FindConversation(id)
}

// Delete removes the conversation and its messages if userID is a
// member. When the user is not a member the call succeeds without a
// write; the membership-scoped filter in the store makes it impossible
// to delete someone else's conversation.
func (s *ConversationService) Delete(_ context.Context, userID, id string) error {
	return s.conversation.DeleteConversation(userID, id)
}

// CreateGroup creates an OPEN group with the creator as ADMIN and every
// other listed member as PARTICIPANT. imageRef was already resolved by
// the blob store; the domain never sees raw bytes.
func (s *ConversationService) CreateGroup(_ context.Context, creatorID, name, description, imageRef string, memberIDs []string) (domain.Conversation, error) {
	conv, err := s.conversation.CreateGroup(creatorID, name, description, imageRef, memberIDs)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("group creation failed: %w", err)
	}
	s.log.Info("group created",
		"conversation_id", conv.ID,
		"creator_id", creatorID,
		"members", len(conv.Members))
	return conv, nil
}

// SetMemberRole updates the target's role inside the group. The role
// gate verified the actor is ADMIN before this call; the store rejects
// the update with a conflict when the target already holds the role.
func (s *ConversationService) SetMemberRole(_ context.Context, actorID, groupID, targetID string, role domain.Role) error {
	if err := s.conversation.UpdateRole(groupID, targetID, role); err != nil {
		return err
	}
	s.log.Info("member role updated",
		"conversation_id", groupID,
		"actor_id", actorID,
		"target_id", targetID,
		"role", string(role))
	return nil
}

// SetStatus overwrites the group status. No transition restriction:
// OPEN->LOCKED and LOCKED->OPEN are both always permitted to an
// already-authorized admin.
func (s *ConversationService) SetStatus(_ context.Context, groupID string, status domain.Status) error {
	return s.conversation.UpdateStatus(groupID, status)
}

// Join adds userID to the group as PARTICIPANT. The store's membership
// uniqueness makes a duplicate join a safe no-op.
func (s *ConversationService) Join(_ context.Context, userID, groupID string) error {
	return s.conversation.AddMember(groupID, userID, domain.RoleParticipant)
}

// ResolveDirect finds the direct conversation between two users,
// creating it exactly once on first contact. The store's pair index
// guarantees two racing first messages share one conversation.
func (s *ConversationService) ResolveDirect(_ context.Context, a, b string) (domain.Conversation, error) {
	return s.conversation.FindOrCreateDirect(a, b)
}

// FindRole is the lookup the role gate composes before admin-only
// operations.
func (s *ConversationService) FindRole(_ context.Context, groupID, userID string) (domain.Role, error) {
	return s.conversation.FindRole(groupID, userID)
}

func (s *ConversationService) Members(_ context.Context, convID string) ([]domain.Membership, error) {
	return s.conversation.Members(convID)
}

// Broadcast delivers an event to every member of the conversation except
// excludeUserID, one Deliver call per member. The fan-out layer resolves
// each member's live connections; offline members receive nothing.
func (s *ConversationService) Broadcast(ctx context.Context, convID, excludeUserID string, e event.ConversationEvent) {
	members, err := s.conversation.Members(convID)
	if err != nil {
		s.log.Warn("broadcast skipped, member lookup failed",
			"conversation_id", convID, "error", err)
		return
	}
	for _, m := range members {
		if m.UserID == excludeUserID {
			continue
		}
		s.fanout.Deliver(ctx, m.UserID, e)
	}
}
