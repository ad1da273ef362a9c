package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Boundary request shapes. The domain assumes these already passed, so
// unknown roles, unknown statuses and empty bodies are rejected here.

type SendMessageRequest struct {
	ReceiverID string `validate:"required"`
	Body       string `validate:"required,min=1"`
}

type CreateGroupRequest struct {
	Name        string   `validate:"required,min=1"`
	Description string   `validate:"required,min=1"`
	MemberIDs   []string `validate:"required,min=1"`
}

type SetRoleRequest struct {
	MemberID string `validate:"required"`
	Role     string `validate:"required,oneof=ADMIN PARTICIPANT"`
}

type SetStatusRequest struct {
	Status string `validate:"required,oneof=OPEN LOCKED"`
}

func ValidateSendMessage(req SendMessageRequest) error {
	return validate.Struct(req)
}

func ValidateCreateGroup(req CreateGroupRequest) error {
	return validate.Struct(req)
}

func ValidateSetRole(req SetRoleRequest) error {
	return validate.Struct(req)
}

func ValidateSetStatus(req SetStatusRequest) error {
	return validate.Struct(req)
}
