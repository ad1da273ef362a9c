package gateway

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"messenger/errors"
)

func TestFromError_Mapping(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		err        error
		statusCode int
		message    string
	}{
		{errors.ErrEditWindowExpired, 400, "Message cannot be edited"},
		{errors.ErrDeleteWindowExpired, 400, "Message cannot be deleted"},
		{errors.ErrNotGroupMember, 401, "User doesn't belong to this group"},
		{errors.ErrGroupLocked, 401, "Group has been locked by an admin"},
		{errors.ErrNotAdmin, 401, "User is not authorized to set admins"},
		{errors.ErrInvalidToken, 401, "Login to access this route"},
		{errors.ErrRoleConflict, 409, "User is already an admin"},
		{errors.ErrConversationNotFound, 404, "Conversation not found"},
		{errors.ErrMessageNotFound, 404, "Message not found"},
		{errors.ErrUnknownRole, 400, "Invalid value"},
		{errors.ErrUnknownStatus, 400, "Invalid value"},
	}
	for _, tt := range tests {
		resp := FromError(tt.err)
		req.Equal(tt.statusCode, resp.StatusCode, tt.err.Error())
		req.Equal(StatusFailed, resp.Body.Status)
		req.Equal(tt.message, resp.Body.Message)
	}
}

func TestFromError_Wrapped_Sentinel(t *testing.T) {
	req := require.New(t)

	resp := FromError(fmt.Errorf("group creation failed: %w", errors.ErrRoleConflict))
	req.Equal(409, resp.StatusCode)
}

func TestFromError_Unknown_Error_Is_500(t *testing.T) {
	req := require.New(t)

	resp := FromError(fmt.Errorf("disk on fire"))
	req.Equal(500, resp.StatusCode)
	req.Equal("Something went wrong", resp.Body.Message)
}

func TestSuccess_Envelope(t *testing.T) {
	req := require.New(t)

	resp := Success("Conversation found", map[string]string{"id": "conv-1"})
	req.Equal(200, resp.StatusCode)
	req.Equal(StatusSuccess, resp.Body.Status)
	req.Equal("Conversation found", resp.Body.Message)
	req.NotNil(resp.Body.Data)
}
