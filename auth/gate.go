package auth

import (
	"context"

	"messenger/domain"
	"messenger/errors"
	"messenger/services"
)

// RoleGate guards admin-only conversation operations. The transport runs
// RequireAdmin before SetMemberRole and SetStatus; the domain services
// themselves never re-check the actor's role.
type RoleGate struct {
	conversations services.IConversationService
}

func NewRoleGate(conversations services.IConversationService) RoleGate {
	return RoleGate{conversations: conversations}
}

// RequireAdmin resolves the caller's role in the group and rejects
// anyone who is not ADMIN. A caller who is not a member at all is also
// rejected as not authorized rather than leaking membership state.
func (g RoleGate) RequireAdmin(ctx context.Context, groupID, userID string) error {
	role, err := g.conversations.FindRole(ctx, groupID, userID)
	if err != nil {
		return errors.ErrNotAdmin
	}
	if role != domain.RoleAdmin {
		return errors.ErrNotAdmin
	}
	return nil
}
