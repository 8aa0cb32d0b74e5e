package services

import "github.com/dmitrijs2005/matrimo/internal/common"

// Error is a failure meant for the end user. Message is shown verbatim by
// the client; Kind is one of the common sentinels and picks the status code.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

var (
	ErrInvalidCredentials = &Error{Kind: common.ErrorUnauthorized, Message: "Invalid email or password"}
	ErrSessionExpired     = &Error{Kind: common.ErrRefreshTokenExpired, Message: "Your session has expired. Please log in again."}
	ErrEmailTaken         = &Error{Kind: common.ErrorAlreadyExists, Message: "An account with this email already exists"}
	ErrInvalidOTP         = &Error{Kind: common.ErrInvalidOTP, Message: "Invalid or expired code"}
	ErrOTPNotVerified     = &Error{Kind: common.ErrOTPNotVerified, Message: "Verify the code before choosing a new password"}
)

func invalid(msg string) error {
	return &Error{Kind: common.ErrorValidation, Message: msg}
}
