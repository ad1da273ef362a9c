// Package gateway defines the response envelope and the deterministic
// error mapping shared by every transport that surfaces the domain over
// HTTP. It contains no routing; a transport mounts these.
package gateway

import (
	stderrors "errors"

	"messenger/errors"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Envelope is the client-facing response body:
// {status: "success"|"failed", message: string, data?: T}.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response pairs an envelope with its HTTP status code.
type Response struct {
	StatusCode int
	Body       Envelope
}

func Success(message string, data any) Response {
	return Response{
		StatusCode: 200,
		Body:       Envelope{Status: StatusSuccess, Message: message, Data: data},
	}
}

func Failure(statusCode int, message string) Response {
	return Response{
		StatusCode: statusCode,
		Body:       Envelope{Status: StatusFailed, Message: message},
	}
}

// FromError maps each expected business condition to its stable HTTP
// status and literal message, so clients can branch on status/message
// deterministically. Anything unmapped is an infrastructure failure and
// collapses into a generic 500.
func FromError(err error) Response {
	switch {
	case stderrors.Is(err, errors.ErrEditWindowExpired):
		return Failure(400, "Message cannot be edited")
	case stderrors.Is(err, errors.ErrDeleteWindowExpired):
		return Failure(400, "Message cannot be deleted")
	case stderrors.Is(err, errors.ErrNotGroupMember):
		return Failure(401, "User doesn't belong to this group")
	case stderrors.Is(err, errors.ErrGroupLocked):
		return Failure(401, "Group has been locked by an admin")
	case stderrors.Is(err, errors.ErrNotAdmin):
		return Failure(401, "User is not authorized to set admins")
	case stderrors.Is(err, errors.ErrInvalidToken):
		return Failure(401, "Login to access this route")
	case stderrors.Is(err, errors.ErrRoleConflict):
		// Promotion is the only role change issued in practice, so the
		// conflicting role is always ADMIN.
		return Failure(409, "User is already an admin")
	case stderrors.Is(err, errors.ErrConversationNotFound):
		return Failure(404, "Conversation not found")
	case stderrors.Is(err, errors.ErrMessageNotFound):
		return Failure(404, "Message not found")
	case stderrors.Is(err, errors.ErrUnknownRole), stderrors.Is(err, errors.ErrUnknownStatus):
		return Failure(400, "Invalid value")
	}
	return Failure(500, "Something went wrong")
}
