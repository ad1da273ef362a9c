package errors

import "fmt"

// Expected business conditions. Domain services return these directly;
// anything else reaching the boundary is an infrastructure failure and
// maps to a generic 500.
var (
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrMessageNotFound      = fmt.Errorf("message not found")
	ErrRoleConflict         = fmt.Errorf("member already has this role")
	ErrNotGroupMember       = fmt.Errorf("user does not belong to this group")
	ErrGroupLocked          = fmt.Errorf("group is locked")
	ErrEditWindowExpired    = fmt.Errorf("edit window expired")
	ErrDeleteWindowExpired  = fmt.Errorf("delete window expired")
	ErrNotAdmin             = fmt.Errorf("user is not an admin of this group")
	ErrNotGroup             = fmt.Errorf("conversation is not a group")
	ErrInvalidToken         = fmt.Errorf("invalid or expired token")
	ErrUnknownRole          = fmt.Errorf("unknown role")
	ErrUnknownStatus        = fmt.Errorf("unknown status")
)
